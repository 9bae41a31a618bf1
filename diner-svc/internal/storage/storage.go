package storage

import (
	"qr-dine/diner-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

var (
	_ service.AuthPersister       = (*RedisAuthPersister)(nil)
	_ service.AuthPersister       = (*PostgresAuthPersister)(nil)
	_ service.OrderEventPublisher = (*KafkaPublisher)(nil)
	_ MessageWriter               = (*kafka.Writer)(nil)
)
