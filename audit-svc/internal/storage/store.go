package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qr-dine/audit-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	orderStatusTTL = 24 * time.Hour
	dailyTotalsTTL = 7 * 24 * time.Hour
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS order_events (
			id             BIGSERIAL PRIMARY KEY,
			event_type     TEXT NOT NULL,
			order_id       TEXT NOT NULL,
			transaction_id TEXT NOT NULL DEFAULT '',
			hotel_id       TEXT NOT NULL DEFAULT '',
			branch_id      TEXT NOT NULL DEFAULT '',
			table_id       TEXT NOT NULL DEFAULT '',
			amount         NUMERIC(12, 2) NOT NULL DEFAULT 0,
			status         TEXT NOT NULL DEFAULT '',
			occurred_at    TIMESTAMPTZ NOT NULL,
			recorded_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (s *Store) RecordEvent(ctx context.Context, event domain.OrderEvent) error {
	occurredAt := event.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_events
			(event_type, order_id, transaction_id, hotel_id, branch_id, table_id, amount, status, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.Type, event.OrderID, event.TransactionID, event.HotelID, event.BranchID,
		event.TableID, event.Amount, event.Status, occurredAt)
	return err
}

func OrderKey(orderID string) string {
	return "order:" + orderID
}

// UpdateOrderStatus mirrors the latest known state of the order for quick lookups.
func (s *Store) UpdateOrderStatus(ctx context.Context, event domain.OrderEvent) error {
	fields := map[string]interface{}{
		"last_event":   event.Type,
		"last_updated": time.Now().Unix(),
	}
	if event.Status != "" {
		fields["status"] = event.Status
	}
	if event.TransactionID != "" {
		fields["transaction_id"] = event.TransactionID
	}
	if event.Amount != 0 {
		fields["amount"] = event.Amount
	}
	if event.HotelID != "" {
		fields["hotel_id"] = event.HotelID
		fields["branch_id"] = event.BranchID
	}

	key := OrderKey(event.OrderID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, orderStatusTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func DailyTotalsKey(day time.Time, hotelID string) string {
	return fmt.Sprintf("orders:daily:%s:%s", day.Format("2006-01-02"), hotelID)
}

// UpdateDailyTotals adds a placed order's amount to its branch's score for the day.
func (s *Store) UpdateDailyTotals(ctx context.Context, event domain.OrderEvent) error {
	day := event.Timestamp
	if day.IsZero() {
		day = time.Now()
	}
	key := DailyTotalsKey(day, event.HotelID)
	if err := s.rdb.ZIncrBy(ctx, key, event.Amount, event.BranchID).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, dailyTotalsTTL).Err()
}
