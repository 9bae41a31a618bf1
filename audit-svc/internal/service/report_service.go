package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"qr-dine/audit-svc/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// OrderStatus reads the cached status first and falls back to the event log
// once the cache entry has expired.
func (s *ReportService) OrderStatus(ctx context.Context, orderID string) (*domain.OrderStatus, error) {
	cached, err := s.store.CachedOrderStatus(ctx, orderID)
	if err != nil {
		log.Printf("[audit-svc] WARNING: status cache read for order %s failed: %v", orderID, err)
	}
	if cached != nil {
		return cached, nil
	}

	status, err := s.store.LatestOrderStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, ErrOrderNotFound
	}
	return status, nil
}

func (s *ReportService) OrderHistory(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	events, err := s.store.OrderHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrOrderNotFound
	}
	return events, nil
}

// DailyTotals sums checkout amounts per branch for one hotel and day. An empty
// date means today.
func (s *ReportService) DailyTotals(ctx context.Context, hotelID, date string) (*domain.DailyTotals, error) {
	day := time.Now()
	if date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		day = parsed
	}

	branches, err := s.store.DailyTotals(ctx, day, hotelID)
	if err != nil {
		return nil, err
	}

	report := &domain.DailyTotals{
		HotelID:  hotelID,
		Date:     day.Format(dateLayout),
		Branches: branches,
	}
	for _, b := range branches {
		report.Total += b.Amount
	}
	report.Total = math.Round(report.Total*100) / 100
	return report, nil
}
