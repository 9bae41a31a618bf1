package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/mocks"
	"qr-dine/diner-svc/internal/storage"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := mocks.NewMessageWriter(t)
	publisher := storage.NewKafkaPublisher(writer)
	ctx := context.Background()

	event := domain.OrderEvent{
		Type:      domain.EventCheckoutCompleted,
		OrderID:   "o-1",
		HotelID:   "h1",
		BranchID:  "b1",
		Amount:    250,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	writer.On("WriteMessages", ctx, mock.MatchedBy(func(msg kafka.Message) bool {
		var decoded domain.OrderEvent
		if err := json.Unmarshal(msg.Value, &decoded); err != nil {
			return false
		}
		return string(msg.Key) == "o-1" && decoded.Type == domain.EventCheckoutCompleted && decoded.Amount == 250
	})).Return(nil).Once()

	require.NoError(t, publisher.PublishOrderEvent(ctx, event))
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	writer := mocks.NewMessageWriter(t)
	publisher := storage.NewKafkaPublisher(writer)
	ctx := context.Background()

	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker unavailable")).Once()

	err := publisher.PublishOrderEvent(ctx, domain.OrderEvent{OrderID: "o-2"})
	assert.EqualError(t, err, "broker unavailable")
}
