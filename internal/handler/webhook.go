package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fooddelivery/internal/service"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 64 << 10
)

type webhookResponse struct {
	Received bool `json:"received"`
}

// StripeWebhookHandler must see the body bytes exactly as sent; no middleware
// on this route may consume or re-encode it.
func StripeWebhookHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sig := r.Header.Get(signatureHeader)
		if sig == "" {
			slog.Warn("webhook without signature header")
			http.Error(w, "missing stripe-signature header", http.StatusBadRequest)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "webhook error: cannot read body", http.StatusBadRequest)
			return
		}

		err = orderSvc.HandlePaymentEvent(r.Context(), payload, sig)
		switch {
		case errors.Is(err, service.ErrBadSignature):
			http.Error(w, "webhook error: "+err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrOrderNotFound):
			writeMessage(w, http.StatusNotFound, "order not found")
		default:
			writeJSON(w, http.StatusOK, webhookResponse{Received: true})
		}
	}
}
