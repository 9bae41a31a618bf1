package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"qr-dine/config"
	httpapi "qr-dine/diner-svc/internal/api/http"
	"qr-dine/diner-svc/internal/backend"
	"qr-dine/diner-svc/internal/service"
	"qr-dine/diner-svc/internal/storage"
)

var _ service.Backend = (*backend.Client)(nil)

func main() {
	config.Load()

	sessions := service.NewRegistry(service.SessionConfig{
		Backend:     newBackendFactory(),
		Persister:   mustInitAuthPersistence(),
		Publisher:   newOrderEventPublisher(),
		IdleTimeout: config.GetEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		MaxSessions: config.GetEnvInt("SESSION_MAX", 10000),
	})
	go sessions.Run(context.Background(), config.GetEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute))

	publicURL := strings.TrimRight(config.GetEnv("PUBLIC_URL", "http://localhost:8084"), "/")
	qrcodes := service.TableQRGenerator{
		BaseURL: publicURL,
		Size:    config.GetEnvInt("QR_SIZE", 256),
	}

	handler := httpapi.NewHandler(sessions, qrcodes, httpapi.PollConfig{
		Interval:    config.GetEnvDuration("PAYMENT_POLL_INTERVAL", 0),
		MaxAttempts: config.GetEnvInt("PAYMENT_POLL_ATTEMPTS", 0),
	})

	origins := config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{publicURL})
	httpapi.StartServer(":"+config.GetEnv("PORT", "8084"), httpapi.NewRouter(handler, origins...))
}

func newBackendFactory() service.BackendFactory {
	baseURL := strings.TrimRight(config.GetEnv("BACKEND_URL", "http://localhost:8080"), "/")
	client := backend.NewClient(baseURL, &http.Client{
		Timeout: config.GetEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
	}, nil)

	return func(token func() string) service.Backend {
		return client.WithToken(token)
	}
}

func mustInitAuthPersistence() func(sessionID string) service.AuthPersister {
	switch config.GetEnv("AUTH_STORE", "redis") {
	case "postgres":
		store := storage.NewPostgresAuthStore(config.MustInitPostgres())
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatal("Failed to ensure schema:", err)
		}
		log.Println("[diner-svc] auth records stored in Postgres")
		return func(sessionID string) service.AuthPersister {
			return store.ForSession(sessionID)
		}
	case "none":
		log.Println("[diner-svc] WARNING: auth records are not persisted")
		return nil
	default:
		store := storage.NewRedisAuthStore(config.MustInitRedis(), config.GetEnvDuration("AUTH_TTL", 30*24*time.Hour))
		log.Println("[diner-svc] auth records stored in Redis")
		return func(sessionID string) service.AuthPersister {
			return store.ForSession(sessionID)
		}
	}
}

func newOrderEventPublisher() service.OrderEventPublisher {
	if !config.KafkaEnabled() {
		log.Println("[diner-svc] KAFKA_BROKER not set, order events disabled")
		return nil
	}
	return storage.NewKafkaPublisher(config.NewKafkaWriter(storage.OrderEventsTopic))
}
