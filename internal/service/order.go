package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fooddelivery/internal/model"
	"fooddelivery/internal/payment"
	"fooddelivery/internal/repository"
)

type CheckoutRequest struct {
	RestaurantID    string
	CartItems       []model.CartItem
	DeliveryDetails model.DeliveryDetails
}

type OrderService struct {
	orders      OrderStore
	restaurants RestaurantStore
	gateway     PaymentGateway
	frontendURL string
	currency    string
	now         func() time.Time
}

func NewOrderService(orders OrderStore, restaurants RestaurantStore, gateway PaymentGateway, frontendURL, currency string) *OrderService {
	return &OrderService{
		orders:      orders,
		restaurants: restaurants,
		gateway:     gateway,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		currency:    currency,
		now:         time.Now,
	}
}

// CreateCheckoutSession opens a hosted payment session for the cart and returns its URL.
// The order is written only once the gateway has returned a URL.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, userID string, req CheckoutRequest) (string, error) {
	if len(req.CartItems) == 0 {
		return "", fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRestaurantNotFound
		}
		return "", fmt.Errorf("%w: get restaurant: %v", ErrPersistence, err)
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		RestaurantID:    rest.ID,
		UserID:          userID,
		DeliveryDetails: req.DeliveryDetails,
		CartItems:       append([]model.CartItem(nil), req.CartItems...),
		TotalAmount:     0,
		Status:          model.OrderStatusPlaced,
		CreatedAt:       s.now(),
	}

	lineItems, err := BuildLineItems(order.CartItems, rest, s.currency)
	if err != nil {
		return "", err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionRequest{
		LineItems:     lineItems,
		DeliveryPrice: rest.DeliveryPrice,
		Currency:      s.currency,
		OrderID:       order.ID,
		RestaurantID:  rest.ID,
		SuccessURL:    s.frontendURL + "/order-status?success=true",
		CancelURL:     fmt.Sprintf("%s/detail/%s?cancelled=true", s.frontendURL, rest.ID),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if session == nil || session.URL == "" {
		return "", fmt.Errorf("%w: error creating checkout session", ErrGateway)
	}
	order.CheckoutSessionID = session.ID

	if err := s.orders.Create(ctx, order); err != nil {
		return "", fmt.Errorf("%w: save order: %v", ErrPersistence, err)
	}

	slog.Info("checkout session created",
		"order_id", order.ID,
		"restaurant_id", rest.ID,
		"session_id", session.ID,
		"subtotal", Subtotal(lineItems),
	)

	return session.URL, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrPersistence, err)
	}
	return orders, nil
}
