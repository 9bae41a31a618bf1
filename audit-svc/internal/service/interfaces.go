package service

import (
	"context"
	"time"

	"qr-dine/audit-svc/internal/domain"
	"qr-dine/audit-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	RecordEvent(ctx context.Context, event domain.OrderEvent) error
	UpdateOrderStatus(ctx context.Context, event domain.OrderEvent) error
	UpdateDailyTotals(ctx context.Context, event domain.OrderEvent) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ReportStore interface {
	CachedOrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error)
	LatestOrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error)
	OrderHistory(ctx context.Context, orderID string) ([]domain.OrderEvent, error)
	DailyTotals(ctx context.Context, day time.Time, hotelID string) ([]domain.BranchTotal, error)
}

type ReportInterface interface {
	OrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error)
	OrderHistory(ctx context.Context, orderID string) ([]domain.OrderEvent, error)
	DailyTotals(ctx context.Context, hotelID, date string) (*domain.DailyTotals, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ ReportStore       = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
	_ ReportInterface   = (*ReportService)(nil)
)
