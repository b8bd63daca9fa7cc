// Package payment talks to the hosted-checkout payment provider.
package payment

import "errors"

var ErrInvalidSignature = errors.New("invalid webhook signature")

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"

	PaymentStatusPaid = "paid"

	// MetadataOrderID and MetadataRestaurantID correlate a session with a local order.
	MetadataOrderID      = "orderId"
	MetadataRestaurantID = "restaurantId"
)

// LineItem amounts are in the smallest currency unit.
type LineItem struct {
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

type SessionRequest struct {
	LineItems     []LineItem
	DeliveryPrice int64
	Currency      string
	OrderID       string
	RestaurantID  string
	SuccessURL    string
	CancelURL     string
}

type Session struct {
	ID            string
	URL           string
	Metadata      map[string]string
	AmountTotal   int64
	PaymentStatus string
}

// Event is a verified gateway notification. Session is set for checkout.session.* events.
type Event struct {
	ID      string
	Type    string
	Session *Session
}
