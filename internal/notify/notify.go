package notify

import (
	"reservas-service/api"
	"reservas-service/internal/models"
	"context"
)

type Kind string

const (
	KindCreated   Kind = "CREATED"
	KindCancelled Kind = "CANCELLED"
)

// Event announces that a reservation was created or cancelled. Delivery is
// at-least-once and per-resource-type ordered; subscribers should treat an
// event as a hint to re-fetch the authoritative list, not as state.
type Event struct {
	Kind         Kind                     `json:"kind"`
	ID           string                   `json:"id"`
	ResourceType models.ResourceType      `json:"resource_type"`
	Reservation  *api.ReservationResponse `json:"reservation,omitempty"`
}

// Channel names the feed for one resource type. Every client watching that
// type's calendar subscribes to the same channel.
func Channel(rt models.ResourceType) string {
	return "reservations:" + string(rt)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, rt models.ResourceType) (<-chan Event, func(), error)
}
