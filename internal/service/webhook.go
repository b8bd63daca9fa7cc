package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fooddelivery/internal/payment"
	"fooddelivery/internal/repository"
)

// HandlePaymentEvent verifies and applies a gateway notification.
//
// Only ErrBadSignature and ErrOrderNotFound are returned. Failures after the
// event is authenticated are logged and swallowed so the gateway does not
// redeliver an event this service cannot process.
func (s *OrderService) HandlePaymentEvent(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: missing signature", ErrBadSignature)
	}

	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			slog.Warn("webhook signature verification failed", "error", err)
			return fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
		// Authenticated but unreadable; redelivery would not help.
		slog.Error("failed to decode verified webhook event", "error", err)
		return nil
	}

	slog.Info("webhook event verified", "event_id", event.ID, "type", event.Type)

	if event.Type != payment.EventCheckoutSessionCompleted || event.Session == nil {
		return nil
	}

	orderID := event.Session.Metadata[payment.MetadataOrderID]

	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Error("order not found for completed session", "order_id", orderID, "session_id", event.Session.ID)
			return ErrOrderNotFound
		}
		slog.Error("failed to load order for completed session", "order_id", orderID, "error", err)
		return nil
	}

	s.markPaid(ctx, orderID, event.Session.AmountTotal)
	return nil
}

func (s *OrderService) markPaid(ctx context.Context, orderID string, amount int64) {
	updated, err := s.orders.MarkPaid(ctx, orderID, amount)
	switch {
	case err != nil:
		slog.Error("failed to mark order paid", "order_id", orderID, "amount", amount, "error", err)
	case !updated:
		slog.Info("order already paid", "order_id", orderID)
	default:
		slog.Info("order paid", "order_id", orderID, "amount", amount)
	}
}
