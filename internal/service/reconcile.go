package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/payment"
)

// Checkout sessions expire at most 24h after creation; after that a placed
// order can no longer become paid.
const reconcileWindow = 25 * time.Hour

// ReconcilePlaced looks up gateway sessions of placed orders older than the
// given age and marks paid the ones the gateway reports as paid. Each checked
// order moves to the back of the queue. It returns the number of orders it
// marked paid.
func (s *OrderService) ReconcilePlaced(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	now := s.now()
	orders, err := s.orders.ListStalePlaced(ctx, now.Add(-reconcileWindow), now.Add(-olderThan), limit)
	if err != nil {
		return 0, fmt.Errorf("%w: list stale orders: %v", ErrPersistence, err)
	}

	var paid int
	for _, o := range orders {
		if ctx.Err() != nil {
			return paid, ctx.Err()
		}

		session, err := s.gateway.GetCheckoutSession(ctx, o.CheckoutSessionID)
		if terr := s.orders.TouchReconciled(ctx, o.ID, s.now()); terr != nil {
			slog.Error("failed to record reconcile check", "order_id", o.ID, "error", terr)
		}
		if err != nil {
			slog.Error("failed to fetch checkout session", "order_id", o.ID, "session_id", o.CheckoutSessionID, "error", err)
			continue
		}
		if session.PaymentStatus != payment.PaymentStatusPaid {
			continue
		}

		updated, err := s.orders.MarkPaid(ctx, o.ID, session.AmountTotal)
		if err != nil {
			slog.Error("failed to mark order paid", "order_id", o.ID, "error", err)
			continue
		}
		if updated {
			slog.Warn("order paid without webhook, reconciled", "order_id", o.ID, "amount", session.AmountTotal)
			paid++
		}
	}

	return paid, nil
}
