package get

import (
	"reservas-service/api"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ReservationGetter interface {
	GetReservation(ctx context.Context, id string) (*api.ReservationResponse, error)
	ListReservations(ctx context.Context, resourceType string, from, to *time.Time) ([]*api.ReservationResponse, error)
}

type Response struct {
	response.Response
	Reservations []api.ReservationResponse `json:"reservations,omitempty"`
	Reservation  *api.ReservationResponse  `json:"reservation,omitempty"`
}

func New(log *slog.Logger, getter ReservationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			reservation, err := getter.GetReservation(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("Reservation not found", slog.String("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "reservation not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get reservation", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get reservation"))
				return
			}

			log.Info("Reservation retrieved", slog.String("id", reservation.ID))
			render.JSON(w, r, Response{Reservation: reservation})
			return
		}

		resourceType := r.URL.Query().Get("resource_type")
		if resourceType == "" {
			log.Error("resource_type is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "resource_type is required"))
			return
		}

		var from, to *time.Time
		if fromStr := r.URL.Query().Get("from"); fromStr != "" {
			if t, err := time.Parse("2006-01-02", fromStr); err == nil {
				from = &t
			}
		}
		if toStr := r.URL.Query().Get("to"); toStr != "" {
			if t, err := time.Parse("2006-01-02", toStr); err == nil {
				to = &t
			}
		}

		reservations, err := getter.ListReservations(r.Context(), resourceType, from, to)

		if errors.Is(err, response.ErrUnknownResource) {
			log.Error("Unknown resource type", slog.String("resource_type", resourceType))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.UNKNOWN_RESOURCE), "unknown resource type"))
			return
		}

		if err != nil {
			log.Error("Failed to list reservations", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list reservations"))
			return
		}

		log.Info("Reservations retrieved", slog.Int("count", len(reservations)))

		result := make([]api.ReservationResponse, len(reservations))
		for i, reservation := range reservations {
			result[i] = *reservation
		}

		render.JSON(w, r, Response{Reservations: result})
	}
}
