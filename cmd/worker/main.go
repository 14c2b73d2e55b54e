// cmd/worker consumes record events from RabbitMQ and writes them to the audit table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
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

	if cfg.AMQP.URL == "" {
		log.Fatal("amqp.url is required for the worker (set CRM_AMQP_URL)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to DB
	conn, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	// Connect to RabbitMQ
	q, err := queue.DialAMQP(cfg.AMQP.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	auditRepo := repository.NewAuditRepository(conn)
	if err := queue.StartAuditSubscriber(q, cfg.AMQP.Queue, auditRepo, log); err != nil {
		log.Fatal("Failed to register consumer", zap.Error(err))
	}

	log.Info("Worker running, waiting for record events...", zap.String("queue", cfg.AMQP.Queue))
	<-ctx.Done()
	log.Info("Worker stopping")
}
