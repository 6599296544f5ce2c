package create

import (
	"reservas-service/api"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ReservationCreator interface {
	CreateReservation(ctx context.Context, req *api.ReservationRequest, createdBy string) (*api.ReservationResponse, error)
}

type Request struct {
	api.ReservationRequest
}

type Response struct {
	response.Response
	Reservation *api.ReservationResponse `json:"reservation,omitempty"`
	Conflict    *api.ConflictInfo        `json:"conflict,omitempty"`
}

func New(log *slog.Logger, creator ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		createdBy := r.Header.Get("X-User")

		reservation, err := creator.CreateReservation(r.Context(), &req.ReservationRequest, createdBy)

		var conflict *response.ConflictError
		if errors.As(err, &conflict) {
			log.Info("Slot already reserved",
				slog.String("requester", conflict.Requester),
				slog.Any("overlapping_periods", conflict.Periods),
			)
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, Response{
				Response: response.Error(string(response.CONFLICT), conflict.Error()),
				Conflict: &api.ConflictInfo{
					Requester:          conflict.Requester,
					GroupLabel:         conflict.GroupLabel,
					OverlappingPeriods: conflict.Periods,
				},
			})
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Info("Slot already reserved")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "slot already reserved"))
			return
		}

		if errors.Is(err, response.ErrUnknownResource) {
			log.Error("Unknown resource", slog.String("resource_type", req.ResourceType))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.UNKNOWN_RESOURCE), "unknown resource type or instance"))
			return
		}

		if errors.Is(err, response.ErrNoPeriods) {
			log.Error("No periods selected")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.NO_PERIODS), "at least one period is required"))
			return
		}

		if errors.Is(err, response.ErrMissingField) {
			log.Error("Missing required field")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.MISSING_FIELD), "requester and group_label are required"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("Malformed request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "malformed date, shift or period"))
			return
		}

		if err != nil {
			log.Error("Failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create reservation"))
			return
		}

		log.Info("Reservation created", slog.String("id", reservation.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Reservation: reservation,
		})
	}
}
