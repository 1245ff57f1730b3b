package session

import (
	"context"

	"angdelivery/internal/domain"
)

// AuthGateway is the slice of the remote auth service the controller uses.
type AuthGateway interface {
	Register(ctx context.Context, phone, password, name string, role domain.Role) (domain.User, error)
	Login(ctx context.Context, phone, password string) (domain.User, error)
	LoginByQR(ctx context.Context, qrCode string) (domain.User, error)
	Profile(ctx context.Context, userID int64) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// OrdersGateway is the slice of the remote order service the controller uses.
type OrdersGateway interface {
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	Create(ctx context.Context, draft domain.OrderDraft, clientID int64) (domain.OrderReceipt, error)
	Accept(ctx context.Context, orderID, courierID int64) error
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	Rate(ctx context.Context, orderID int64, rating int, review string) error
}

// Notifier surfaces transient user-facing notifications. Implementations
// must not block.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Counter counts events. prometheus.Counter satisfies it.
type Counter interface {
	Inc()
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)  {}

type nopCounter struct{}

func (nopCounter) Inc() {}
