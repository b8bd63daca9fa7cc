package service

import (
	"fmt"

	"fooddelivery/internal/model"
	"fooddelivery/internal/payment"
)

// BuildLineItems prices every cart item from the restaurant's menu.
// Client-supplied names are ignored; the menu is authoritative.
func BuildLineItems(cart []model.CartItem, rest *model.Restaurant, currency string) ([]payment.LineItem, error) {
	items := make([]payment.LineItem, 0, len(cart))
	for _, ci := range cart {
		menuItem, ok := rest.MenuItem(ci.MenuItemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, ci.MenuItemID)
		}
		if ci.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrValidation, ci.MenuItemID)
		}

		items = append(items, payment.LineItem{
			Name:       menuItem.Name,
			Currency:   currency,
			UnitAmount: menuItem.Price,
			Quantity:   ci.Quantity,
		})
	}
	return items, nil
}

// Subtotal is the sum charged for the line items, excluding delivery.
func Subtotal(items []payment.LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.UnitAmount * it.Quantity
	}
	return sum
}
