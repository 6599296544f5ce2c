package subscribe

import (
	"reservas-service/internal/models"
	"reservas-service/internal/notify"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin policy is handled by the portal's reverse proxy.
		return true
	},
}

// New streams reservation events for one resource type over a websocket.
// Events are hints to re-fetch the calendar, not state: a client that
// reconnects simply re-fetches the list and misses nothing.
func New(log *slog.Logger, subscriber notify.Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.subscribe.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rt, ok := models.ParseResourceType(chi.URLParam(r, "resource_type"))
		if !ok {
			log.Error("Unknown resource type")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.UNKNOWN_RESOURCE), "unknown resource type"))
			return
		}

		events, stop, err := subscriber.Subscribe(r.Context(), rt)
		if err != nil {
			log.Error("Failed to subscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to subscribe"))
			return
		}
		defer stop()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade failed", sl.Err(err))
			return
		}
		defer conn.Close()

		log.Info("Client subscribed", slog.String("resource_type", string(rt)))

		// Drain the read side so we notice the client going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Info("Client disconnected", sl.Err(err))
					return
				}
			case <-done:
				return
			}
		}
	}
}
