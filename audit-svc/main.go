package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	httpapi "qr-dine/audit-svc/internal/api/http"
	"qr-dine/audit-svc/internal/service"
	"qr-dine/audit-svc/internal/storage"
	"qr-dine/config"

	"golang.org/x/sync/errgroup"
)

const (
	orderEventsTopic = "order-events"
	consumerGroup    = "audit-svc-consumer"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	store := storage.NewStore(db, rdb)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	reader := config.NewKafkaReader(config.GetEnv("ORDER_EVENTS_TOPIC", orderEventsTopic), consumerGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := httpapi.NewHandler(service.NewReportService(store))
	if err := run(ctx, ":"+config.GetEnv("PORT", "8085"), service.NewConsumer(reader, store), handler); err != nil {
		log.Printf("[audit-svc] ERROR: %v", err)
	}
	log.Println("[audit-svc] stopped")
}

// run serves the read API and consumes events until ctx is done or the
// server fails, whichever comes first.
func run(ctx context.Context, addr string, consumer service.ConsumerInterface, handler *httpapi.Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.Start(ctx)
		return nil
	})
	g.Go(func() error {
		return httpapi.Serve(ctx, addr, httpapi.NewRouter(handler))
	})
	return g.Wait()
}
