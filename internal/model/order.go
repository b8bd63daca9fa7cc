package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "placed"
	OrderStatusPaid   OrderStatus = "paid"
)

type CartItem struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}

type DeliveryDetails struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
}

// Order.TotalAmount stays 0 until the payment gateway reports the paid amount.
type Order struct {
	ID                string          `json:"id"`
	RestaurantID      string          `json:"restaurantId"`
	UserID            string          `json:"userId"`
	Restaurant        *Restaurant     `json:"restaurant,omitempty"`
	User              *User           `json:"user,omitempty"`
	DeliveryDetails   DeliveryDetails `json:"deliveryDetails"`
	CartItems         []CartItem      `json:"cartItems"`
	TotalAmount       int64           `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	CheckoutSessionID string          `json:"-"`
	CreatedAt         time.Time       `json:"createdAt"`
}
