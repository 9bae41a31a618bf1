package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"qr-dine/audit-svc/internal/domain"
)

// CachedOrderStatus returns nil, nil when the order hash has expired or never existed.
func (s *Store) CachedOrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error) {
	fields, err := s.rdb.HGetAll(ctx, OrderKey(orderID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	amount, _ := strconv.ParseFloat(fields["amount"], 64)
	lastUpdated, _ := strconv.ParseInt(fields["last_updated"], 10, 64)
	return &domain.OrderStatus{
		OrderID:       orderID,
		Status:        fields["status"],
		LastEvent:     fields["last_event"],
		TransactionID: fields["transaction_id"],
		HotelID:       fields["hotel_id"],
		BranchID:      fields["branch_id"],
		Amount:        amount,
		LastUpdated:   lastUpdated,
	}, nil
}

func (s *Store) OrderHistory(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, order_id, transaction_id, hotel_id, branch_id, table_id, amount, status, occurred_at
		FROM order_events
		WHERE order_id = $1
		ORDER BY occurred_at, id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var e domain.OrderEvent
		if err := rows.Scan(&e.Type, &e.OrderID, &e.TransactionID, &e.HotelID, &e.BranchID,
			&e.TableID, &e.Amount, &e.Status, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LatestOrderStatus rebuilds the status from the event log. It returns nil, nil
// for an order with no recorded events.
func (s *Store) LatestOrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error) {
	var status domain.OrderStatus
	var occurredAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT e.event_type, e.occurred_at,
			COALESCE((SELECT status FROM order_events WHERE order_id = $1 AND status <> '' ORDER BY occurred_at DESC, id DESC LIMIT 1), ''),
			COALESCE((SELECT transaction_id FROM order_events WHERE order_id = $1 AND transaction_id <> '' ORDER BY occurred_at DESC, id DESC LIMIT 1), ''),
			COALESCE((SELECT hotel_id FROM order_events WHERE order_id = $1 AND hotel_id <> '' LIMIT 1), ''),
			COALESCE((SELECT branch_id FROM order_events WHERE order_id = $1 AND branch_id <> '' LIMIT 1), ''),
			COALESCE((SELECT amount FROM order_events WHERE order_id = $1 AND amount <> 0 ORDER BY occurred_at DESC, id DESC LIMIT 1), 0)
		FROM order_events e
		WHERE e.order_id = $1
		ORDER BY e.occurred_at DESC, e.id DESC
		LIMIT 1
	`, orderID).Scan(&status.LastEvent, &occurredAt, &status.Status, &status.TransactionID,
		&status.HotelID, &status.BranchID, &status.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	status.OrderID = orderID
	status.LastUpdated = occurredAt.Unix()
	return &status, nil
}

func (s *Store) DailyTotals(ctx context.Context, day time.Time, hotelID string) ([]domain.BranchTotal, error) {
	result, err := s.rdb.ZRevRangeWithScores(ctx, DailyTotalsKey(day, hotelID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	totals := make([]domain.BranchTotal, 0, len(result))
	for _, member := range result {
		branchID, _ := member.Member.(string)
		totals = append(totals, domain.BranchTotal{BranchID: branchID, Amount: member.Score})
	}
	return totals, nil
}
