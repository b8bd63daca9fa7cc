package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddelivery/internal/model"
	"fooddelivery/internal/service"
	"fooddelivery/internal/service/servicetest"
)

func placedOrder(f *fixture, id string) {
	f.orders.Put(model.Order{ID: id, UserID: "user-1", RestaurantID: "rest-1", Status: model.OrderStatusPlaced})
}

func TestHandlePaymentEventMarksOrderPaid(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	payload, sig := servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent("order-1", 2900))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(2900), order.TotalAmount)
}

func TestHandlePaymentEventDuplicateDelivery(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	payload, sig := servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent("order-1", 2900))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	payload, sig = servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent("order-1", 1))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(2900), order.TotalAmount)
}

func TestHandlePaymentEventBadSignature(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	payload, sig := servicetest.SignEvent(t, "whsec_attacker", servicetest.CompletedSessionEvent("order-1", 1))

	err := f.svc.HandlePaymentEvent(context.Background(), payload, sig)
	assert.ErrorIs(t, err, service.ErrBadSignature)

	err = f.svc.HandlePaymentEvent(context.Background(), payload, "")
	assert.ErrorIs(t, err, service.ErrBadSignature)

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
	assert.Zero(t, order.TotalAmount)
}

func TestHandlePaymentEventUnknownOrder(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	payload, sig := servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent("order-404", 2900))

	err := f.svc.HandlePaymentEvent(context.Background(), payload, sig)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	assert.Equal(t, 1, f.orders.Len())

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
}

func TestHandlePaymentEventIgnoresOtherTypes(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	event := servicetest.CompletedSessionEvent("order-1", 2900)
	event["type"] = "checkout.session.expired"
	payload, sig := servicetest.SignEvent(t, webhookSecret, event)

	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
}

func TestHandlePaymentEventSwallowsStoreFailures(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")
	f.orders.MarkPaidErr = errors.New("connection reset")

	payload, sig := servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent("order-1", 2900))
	assert.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	f.orders.GetErr = errors.New("connection reset")
	assert.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))
}

func TestCheckoutThenWebhook(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1",
		checkoutRequest(model.CartItem{MenuItemID: "m1", Quantity: 2}))
	require.NoError(t, err)

	orderID := f.gateway.Requests()[0].OrderID
	order, _ := f.orders.Get(orderID)
	require.Equal(t, model.OrderStatusPlaced, order.Status)
	require.Zero(t, order.TotalAmount)

	payload, sig := servicetest.SignEvent(t, webhookSecret, servicetest.CompletedSessionEvent(orderID, 2900))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	order, _ = f.orders.Get(orderID)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(2900), order.TotalAmount)
}

func TestHandlePaymentEventAcknowledgesUndecodableSession(t *testing.T) {
	f := newFixture()
	placedOrder(f, "order-1")

	event := servicetest.CompletedSessionEvent("order-1", 2900)
	event["data"].(map[string]any)["object"].(map[string]any)["amount_total"] = "not a number"
	payload, sig := servicetest.SignEvent(t, webhookSecret, event)

	assert.NoError(t, f.svc.HandlePaymentEvent(context.Background(), payload, sig))

	order, _ := f.orders.Get("order-1")
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
}
