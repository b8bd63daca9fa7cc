package service

import "errors"

var (
	ErrValidation         = errors.New("invalid request")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrGateway            = errors.New("payment gateway error")
	ErrBadSignature       = errors.New("webhook signature verification failed")
	ErrPersistence        = errors.New("persistence error")

	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
