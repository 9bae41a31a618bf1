package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"qr-dine/audit-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[audit-svc] starting order events consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Println("[audit-svc] consumer stopped")
				return
			}
			log.Printf("[audit-svc] ERROR: reading message: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[audit-svc] ERROR: unmarshaling message at offset %d: %v", message.Offset, err)
			continue
		}

		c.ProcessEvent(ctx, event)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	if !event.Known() {
		log.Printf("[audit-svc] WARNING: ignoring event type %q", event.Type)
		return
	}
	if event.OrderID == "" {
		log.Printf("[audit-svc] WARNING: dropping %s event without order id", event.Type)
		return
	}
	log.Printf("[audit-svc] processing %s: order=%s status=%s amount=%.2f",
		event.Type, event.OrderID, event.Status, event.Amount)

	if err := c.Store.RecordEvent(ctx, event); err != nil {
		log.Printf("[audit-svc] ERROR: recording event for order %s: %v", event.OrderID, err)
		return
	}

	if err := c.Store.UpdateOrderStatus(ctx, event); err != nil {
		log.Printf("[audit-svc] ERROR: updating status for order %s: %v", event.OrderID, err)
		return
	}

	if event.Type == domain.EventCheckoutCompleted {
		if err := c.Store.UpdateDailyTotals(ctx, event); err != nil {
			log.Printf("[audit-svc] ERROR: updating daily totals for order %s: %v", event.OrderID, err)
			return
		}
	}

	log.Printf("[audit-svc] recorded %s for order %s", event.Type, event.OrderID)
}
