package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddelivery/internal/model"
	"fooddelivery/internal/payment"
	"fooddelivery/internal/service"
	"fooddelivery/internal/service/servicetest"
)

const webhookSecret = "whsec_service_test"

type fixture struct {
	orders  *servicetest.Orders
	gateway *servicetest.Gateway
	svc     *service.OrderService
}

func newFixture() *fixture {
	restaurants := servicetest.NewRestaurants(&model.Restaurant{
		ID:            "rest-1",
		Name:          "Pizza Place",
		DeliveryPrice: 500,
		MenuItems: []model.MenuItem{
			{ID: "m1", Name: "Margherita", Price: 1200},
			{ID: "m2", Name: "Pepperoni", Price: 1450},
		},
	})
	orders := servicetest.NewOrders(restaurants)
	gateway := servicetest.NewGateway(webhookSecret)

	return &fixture{
		orders:  orders,
		gateway: gateway,
		svc:     service.NewOrderService(orders, restaurants, gateway, "http://front.test/", "cad"),
	}
}

func checkoutRequest(items ...model.CartItem) service.CheckoutRequest {
	return service.CheckoutRequest{
		RestaurantID: "rest-1",
		CartItems:    items,
		DeliveryDetails: model.DeliveryDetails{
			Email:        "ann@example.com",
			Name:         "Ann",
			AddressLine1: "1 Main St",
			City:         "Toronto",
		},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	f := newFixture()

	url, err := f.svc.CreateCheckoutSession(context.Background(), "user-1",
		checkoutRequest(model.CartItem{MenuItemID: "m1", Name: "client name", Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.test/cs_test_1", url)

	reqs := f.gateway.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, []payment.LineItem{{Name: "Margherita", Currency: "cad", UnitAmount: 1200, Quantity: 2}}, req.LineItems)
	assert.Equal(t, int64(500), req.DeliveryPrice)
	assert.Equal(t, "rest-1", req.RestaurantID)
	assert.Equal(t, "http://front.test/order-status?success=true", req.SuccessURL)
	assert.Equal(t, "http://front.test/detail/rest-1?cancelled=true", req.CancelURL)

	require.Equal(t, 1, f.orders.Len())
	order, ok := f.orders.Get(req.OrderID)
	require.True(t, ok, "order persisted under the id sent as session metadata")
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
	assert.Zero(t, order.TotalAmount)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, "rest-1", order.RestaurantID)
	assert.Equal(t, "cs_test_1", order.CheckoutSessionID)
	assert.Equal(t, []model.CartItem{{MenuItemID: "m1", Name: "client name", Quantity: 2}}, order.CartItems)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestCreateCheckoutSessionRestaurantNotFound(t *testing.T) {
	f := newFixture()
	req := checkoutRequest(model.CartItem{MenuItemID: "m1", Quantity: 1})
	req.RestaurantID = "missing"

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, service.ErrRestaurantNotFound)
	assert.Empty(t, f.gateway.Requests())
	assert.Zero(t, f.orders.Len())
}

func TestCreateCheckoutSessionUnknownMenuItem(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1", checkoutRequest(
		model.CartItem{MenuItemID: "m1", Quantity: 1},
		model.CartItem{MenuItemID: "nope", Quantity: 1},
	))
	assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
	assert.Contains(t, err.Error(), "nope")
	assert.Empty(t, f.gateway.Requests())
	assert.Zero(t, f.orders.Len())
}

func TestCreateCheckoutSessionEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1", checkoutRequest())
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Zero(t, f.orders.Len())
}

func TestCreateCheckoutSessionGatewayFailure(t *testing.T) {
	f := newFixture()
	f.gateway.Err = errors.New("card network down")

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1",
		checkoutRequest(model.CartItem{MenuItemID: "m1", Quantity: 1}))
	assert.ErrorIs(t, err, service.ErrGateway)
	assert.Contains(t, err.Error(), "card network down")
	assert.Zero(t, f.orders.Len())
}

func TestCreateCheckoutSessionWithoutURL(t *testing.T) {
	f := newFixture()
	f.gateway.NoURL = true

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1",
		checkoutRequest(model.CartItem{MenuItemID: "m1", Quantity: 1}))
	assert.ErrorIs(t, err, service.ErrGateway)
	assert.Len(t, f.gateway.Requests(), 1)
	assert.Zero(t, f.orders.Len())
}

func TestCreateCheckoutSessionPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.orders.CreateErr = errors.New("connection refused")

	_, err := f.svc.CreateCheckoutSession(context.Background(), "user-1",
		checkoutRequest(model.CartItem{MenuItemID: "m1", Quantity: 1}))
	assert.ErrorIs(t, err, service.ErrPersistence)
}

func TestListByUser(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.orders.Put(model.Order{ID: "a", UserID: "user-1", RestaurantID: "rest-1", CreatedAt: now.Add(-time.Hour)})
	f.orders.Put(model.Order{ID: "b", UserID: "user-1", RestaurantID: "rest-1", CreatedAt: now})
	f.orders.Put(model.Order{ID: "c", UserID: "user-2", RestaurantID: "rest-1", CreatedAt: now})

	orders, err := f.svc.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "b", orders[0].ID)
	assert.Equal(t, "a", orders[1].ID)
	require.NotNil(t, orders[0].Restaurant)
	assert.Equal(t, "Pizza Place", orders[0].Restaurant.Name)
}
