package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fooddelivery/internal/service"
)

func GetRestaurantHandler(restaurantSvc *service.RestaurantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "restaurantId")

		rest, err := restaurantSvc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrRestaurantNotFound) {
				writeMessage(w, http.StatusNotFound, "restaurant not found")
				return
			}
			slog.Error("get restaurant failed", "restaurant_id", id, "error", err)
			writeMessage(w, http.StatusInternalServerError, "something went wrong")
			return
		}

		writeJSON(w, http.StatusOK, rest)
	}
}
