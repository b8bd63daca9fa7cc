package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fooddelivery/internal/model"
	"fooddelivery/internal/mw"
	"fooddelivery/internal/service"
)

const tokenTTL = 24 * time.Hour

type registerRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func RegisterHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}

		user, err := authSvc.Register(r.Context(), service.RegisterInput{
			Email:        req.Email,
			Password:     req.Password,
			Name:         req.Name,
			AddressLine1: req.AddressLine1,
			City:         req.City,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserExists):
				writeMessage(w, http.StatusConflict, "email already registered")
			default:
				slog.Error("register failed", "error", err)
				writeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		issueToken(w, user, secret, http.StatusCreated)
	}
}

func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}

		user, err := authSvc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			default:
				slog.Error("login failed", "error", err)
				writeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		issueToken(w, user, secret, http.StatusOK)
	}
}

func issueToken(w http.ResponseWriter, user *model.User, secret string, status int) {
	tokenString, err := mw.IssueToken(user.ID, secret, tokenTTL)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	w.Header().Set("Authorization", "Bearer "+tokenString)
	writeJSON(w, status, user)
}
