package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/handler"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/metrics"
)

// Deps are the HTTP entry points mounted by New. Metrics may be nil.
type Deps struct {
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Customers *controller.CustomerController
	Addresses *controller.AddressController
	Events    *handler.EventHandler
	Health    *handler.HealthHandler
}

// New builds the API router
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(d.Logger))
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/healthz", d.Health.HealthzHandler)

	// Customer routes
	r.Route("/api/customers", func(r chi.Router) {
		r.Post("/", d.Customers.CreateCustomer)
		r.Get("/", d.Customers.ListCustomers)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Customers.GetCustomer)
			r.Put("/", d.Customers.UpdateCustomer)
			r.Delete("/", d.Customers.DeleteCustomer)

			r.Get("/events", d.Events.ListCustomerEventsHandler)

			r.Post("/addresses", d.Addresses.CreateAddress)
			r.Get("/addresses", d.Addresses.ListAddresses)
			r.Put("/addresses/{addressId}", d.Addresses.UpdateAddress)
			r.Delete("/addresses/{addressId}", d.Addresses.DeleteAddress)
		})
	})

	return r
}
