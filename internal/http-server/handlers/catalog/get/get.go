package get

import (
	"reservas-service/api"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ResourceDescriber interface {
	DescribeResource(resourceType string) (*api.ResourceDescription, error)
}

type Response struct {
	response.Response
	Resource *api.ResourceDescription `json:"resource,omitempty"`
}

func New(log *slog.Logger, describer ResourceDescriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		resourceType := chi.URLParam(r, "resource_type")

		resource, err := describer.DescribeResource(resourceType)

		if errors.Is(err, response.ErrUnknownResource) {
			log.Error("Unknown resource type", slog.String("resource_type", resourceType))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.UNKNOWN_RESOURCE), "unknown resource type"))
			return
		}

		if err != nil {
			log.Error("Failed to describe resource", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to describe resource"))
			return
		}

		log.Info("Resource described", slog.String("resource_type", resourceType))
		render.JSON(w, r, Response{Resource: resource})
	}
}
