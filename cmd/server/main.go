// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/handler"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/metrics"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/router"
	"github.com/unclebandit/customer-records/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	conn, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	customerRepo := repository.NewCustomerRepository(conn)
	addressRepo := repository.NewAddressRepository(conn)
	auditRepo := repository.NewAuditRepository(conn)

	q, err := openQueue(cfg, auditRepo, log)
	if err != nil {
		log.Fatal("Failed to set up event queue", zap.Error(err))
	}
	defer q.Close()

	events := service.NewEventPublisher(q, cfg.AMQP.Queue)

	customerController := &controller.CustomerController{
		CustomerService: &service.CustomerService{
			CustomerRepo: customerRepo,
			AddressRepo:  addressRepo,
			Events:       events,
			DefaultLimit: cfg.List.DefaultLimit,
			MaxLimit:     cfg.List.MaxLimit,
		},
	}
	addressController := &controller.AddressController{
		AddressService: &service.AddressService{
			AddressRepo: addressRepo,
			Events:      events,
		},
	}

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: router.New(router.Deps{
			Logger:    log,
			Metrics:   metrics.New(),
			Customers: customerController,
			Addresses: addressController,
			Events:    handler.NewEventHandler(auditRepo),
			Health:    &handler.HealthHandler{DB: conn},
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("🚀 Server running", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openQueue publishes to RabbitMQ when amqp.url is set. Otherwise events stay
// in process and are persisted by a local subscriber.
func openQueue(cfg *config.Config, auditRepo repository.AuditRepositoryInterface, log *zap.Logger) (queue.Queue, error) {
	if cfg.AMQP.URL != "" {
		q, err := queue.DialAMQP(cfg.AMQP.URL, log)
		if err != nil {
			return nil, err
		}
		log.Info("Publishing record events to AMQP", zap.String("queue", cfg.AMQP.Queue))
		return q, nil
	}

	q := queue.NewInMemoryQueue(log)
	if err := queue.StartAuditSubscriber(q, cfg.AMQP.Queue, auditRepo, log); err != nil {
		return nil, err
	}
	return q, nil
}
