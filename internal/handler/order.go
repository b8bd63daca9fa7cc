package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fooddelivery/internal/model"
	"fooddelivery/internal/mw"
	"fooddelivery/internal/service"
)

type cartItemRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity" validate:"required,numeric"`
}

type deliveryDetailsRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	City         string `json:"city" validate:"required"`
}

type checkoutSessionRequest struct {
	RestaurantID    string                 `json:"restaurantId" validate:"required"`
	CartItems       []cartItemRequest      `json:"cartItems" validate:"required,min=1,dive"`
	DeliveryDetails deliveryDetailsRequest `json:"deliveryDetails"`
}

type checkoutSessionResponse struct {
	URL string `json:"url"`
}

func (req checkoutSessionRequest) toService() (service.CheckoutRequest, error) {
	items := make([]model.CartItem, 0, len(req.CartItems))
	for i, ci := range req.CartItems {
		qty, err := strconv.ParseInt(ci.Quantity, 10, 64)
		if err != nil || qty <= 0 {
			return service.CheckoutRequest{}, fmt.Errorf("cartItems[%d].quantity must be a positive integer", i)
		}
		items = append(items, model.CartItem{MenuItemID: ci.MenuItemID, Name: ci.Name, Quantity: qty})
	}

	return service.CheckoutRequest{
		RestaurantID: req.RestaurantID,
		CartItems:    items,
		DeliveryDetails: model.DeliveryDetails{
			Email:        req.DeliveryDetails.Email,
			Name:         req.DeliveryDetails.Name,
			AddressLine1: req.DeliveryDetails.AddressLine1,
			City:         req.DeliveryDetails.City,
		},
	}, nil
}

func CreateCheckoutSessionHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req checkoutSessionRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}

		checkout, err := req.toService()
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		url, err := orderSvc.CreateCheckoutSession(r.Context(), userID, checkout)
		if err != nil {
			slog.Error("checkout failed", "user_id", userID, "restaurant_id", checkout.RestaurantID, "error", err)
			switch {
			case errors.Is(err, service.ErrValidation):
				writeMessage(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, service.ErrPersistence):
				writeMessage(w, http.StatusInternalServerError, "error creating checkout session")
			default:
				writeMessage(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, checkoutSessionResponse{URL: url})
	}
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderSvc.ListByUser(r.Context(), userID)
		if err != nil {
			slog.Error("list orders failed", "user_id", userID, "error", err)
			writeMessage(w, http.StatusInternalServerError, "something went wrong")
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}
