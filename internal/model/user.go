package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name"`
	AddressLine1 string    `json:"addressLine1"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"createdAt"`
}
