package service

import (
	"context"
	"time"

	"fooddelivery/internal/model"
	"fooddelivery/internal/payment"
)

// Stores return repository.ErrNotFound for missing records.

type RestaurantStore interface {
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	MarkPaid(ctx context.Context, id string, amount int64) (bool, error)
	ListStalePlaced(ctx context.Context, after, before time.Time, limit int) ([]model.Order, error)
	TouchReconciled(ctx context.Context, id string, at time.Time) error
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
	GetCheckoutSession(ctx context.Context, id string) (*payment.Session, error)
	ConstructEvent(payload []byte, signature string) (*payment.Event, error)
}
