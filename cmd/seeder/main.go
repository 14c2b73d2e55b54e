// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/seed"
)

func main() {
	count := flag.Int("count", 50, "number of customers to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	s := seed.New(repository.NewCustomerRepository(conn), repository.NewAddressRepository(conn), log)
	res, err := s.Run(ctx, *count)
	if err != nil {
		log.Fatal("Seeding failed", zap.Int("customers_written", res.Customers), zap.Error(err))
	}

	fmt.Printf("Database seeding completed successfully! %d customers, %d addresses\n", res.Customers, res.Addresses)
}
