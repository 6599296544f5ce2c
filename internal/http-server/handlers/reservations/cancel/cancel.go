package cancel

import (
	"reservas-service/api"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ReservationCanceller interface {
	CancelReservation(ctx context.Context, id string) (*api.ReservationResponse, error)
}

type Response struct {
	response.Response
	Reservation *api.ReservationResponse `json:"reservation,omitempty"`
}

func New(log *slog.Logger, canceller ReservationCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.cancel.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		reservation, err := canceller.CancelReservation(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Info("Reservation already gone", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "reservation not found"))
			return
		}

		if err != nil {
			log.Error("Failed to cancel reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to cancel reservation"))
			return
		}

		log.Info("Reservation cancelled", slog.String("id", id))
		render.JSON(w, r, Response{Reservation: reservation})
	}
}
