package service

import (
	"context"
	"time"

	"qr-dine/diner-svc/internal/domain"
)

type QRScanner interface {
	ScanQR(ctx context.Context, params domain.ScanParams) (*domain.ScanResponse, error)
}

type MenuFetcher interface {
	GetMenu(ctx context.Context, scope domain.Scope) (*domain.Menu, error)
}

type OffersFetcher interface {
	GetAvailableOffers(ctx context.Context, scope domain.Scope) ([]domain.Offer, error)
}

type CartFetcher interface {
	GetCart(ctx context.Context, scope domain.Scope) ([]domain.CartItem, error)
}

type CheckoutGateway interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error)
	InitiateRazorpayPayment(ctx context.Context, req domain.PaymentInitRequest) (*domain.PaymentSession, error)
	CheckPaymentStatus(ctx context.Context, transactionID string) (*domain.PaymentStatusResult, error)
}

type SessionTerminator interface {
	LogoutCurrentSession(ctx context.Context) error
	LogoutAllSessions(ctx context.Context) error
}

// Backend is everything a diner session consumes from the ordering backend.
type Backend interface {
	QRScanner
	MenuFetcher
	OffersFetcher
	CartFetcher
	CheckoutGateway
	SessionTerminator
}

type AuthPersister interface {
	Load(ctx context.Context) (*domain.AuthRecord, error)
	Save(ctx context.Context, record domain.AuthRecord) error
	Clear(ctx context.Context) error
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type Navigator interface {
	Navigate(route string, delay time.Duration)
}

type QRCodeGenerator interface {
	Generate(params domain.ScanParams) ([]byte, error)
	URL(params domain.ScanParams) string
}
