// Package web serves the browser-facing pages. Every page talks to the API
// through the client, bound to the inbound request's context.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/client"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/model"
)

// API is the subset of *client.Client the pages use
type API interface {
	ListCustomers(ctx context.Context, p client.ListParams) (*client.CustomerList, error)
	CreateCustomer(ctx context.Context, in model.CustomerInput) (int, error)
	GetCustomer(ctx context.Context, id int) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) error
	DeleteCustomer(ctx context.Context, id int) error
	ListAddresses(ctx context.Context, customerID int) ([]model.Address, error)
	GetAddress(ctx context.Context, customerID, addressID int) (*model.Address, error)
	CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (int, error)
	UpdateAddress(ctx context.Context, customerID, addressID int, in model.AddressInput) error
	DeleteAddress(ctx context.Context, customerID, addressID int) error
}

var _ API = (*client.Client)(nil)

type Handler struct {
	API      API
	PageSize int

	pages map[string]*template.Template
}

func NewHandler(api API, pageSize int) (*Handler, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &Handler{API: api, PageSize: pageSize, pages: pages}, nil
}

// Routes builds the web router with request logging
func (h *Handler) Routes(log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	h.Mount(r)
	return r
}

// Mount registers the page routes on r
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/customers", http.StatusFound)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Get("/new", h.NewCustomer)
		r.Post("/", h.CreateCustomer)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.CustomerDetail)
			r.Get("/edit", h.EditCustomer)
			r.Post("/edit", h.UpdateCustomer)
			r.Get("/delete", h.ConfirmDeleteCustomer)
			r.Post("/delete", h.DeleteCustomer)

			r.Get("/addresses/new", h.NewAddress)
			r.Post("/addresses", h.CreateAddress)
			r.Get("/addresses/{addressId}/edit", h.EditAddress)
			r.Post("/addresses/{addressId}/edit", h.UpdateAddress)
			r.Get("/addresses/{addressId}/delete", h.ConfirmDeleteAddress)
			r.Post("/addresses/{addressId}/delete", h.DeleteAddress)
		})
	})
}

// pageError renders the top-level error panel for a failed page load.
// A cancelled request gets nothing: the browser is no longer listening.
func (h *Handler) pageError(w http.ResponseWriter, r *http.Request, title string, err error) {
	if r.Context().Err() != nil && errors.Is(err, context.Canceled) {
		logger.FromContext(r.Context()).Debug("Request cancelled before render", zap.String("path", r.URL.Path))
		return
	}
	h.render(w, r, statusFor(err), "customers", view{Title: title, Error: errorMessage(err)})
}

func statusFor(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "The customer service is unavailable. Please try again."
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	return id, err == nil && id > 0
}

func (h *Handler) badID(w http.ResponseWriter, r *http.Request, what string) {
	h.render(w, r, http.StatusBadRequest, "customers", view{Title: "Not found", Error: "Invalid " + what + " id"})
}
