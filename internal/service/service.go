package service

import (
	"reservas-service/api"
	"reservas-service/internal/catalog"
	"reservas-service/internal/lock"
	"reservas-service/internal/models"
	"reservas-service/internal/notify"
	"reservas-service/pkg/response"
	"reservas-service/pkg/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	log     *slog.Logger
	store   Store
	locker  lock.Locker
	catalog *catalog.Catalog
	bus     notify.Publisher
}

func NewService(log *slog.Logger, store Store, locker lock.Locker, cat *catalog.Catalog, bus notify.Publisher) *Service {
	return &Service{log: log, store: store, locker: locker, catalog: cat, bus: bus}
}

type Store interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	FindConflict(ctx context.Context, rt models.ResourceType, instanceID string, date time.Time, shift models.Shift, periods models.PeriodSet) (*models.Reservation, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context, rt models.ResourceType, from, to *time.Time) ([]*models.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

const (
	dateLayout      = "2006-01-02"
	slotLockTTL     = 10 * time.Second
	storageAttempts = 3
)

// CreateReservation validates the request, checks the slot and persists the
// reservation atomically. The redis lock only narrows the race window for
// nicer conflict reporting; the storage-level uniqueness constraint is what
// actually guarantees no double-booking, so losing the lock never rejects
// the request.
func (s *Service) CreateReservation(ctx context.Context, req *api.ReservationRequest, createdBy string) (*api.ReservationResponse, error) {
	const op = "service.CreateReservation"

	rt, ok := models.ParseResourceType(req.ResourceType)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, req.ResourceType, response.ErrUnknownResource)
	}

	if !s.catalog.HasInstance(rt, req.ResourceInstanceID) {
		return nil, fmt.Errorf("%s: %q has no instance %q: %w", op, rt, req.ResourceInstanceID, response.ErrUnknownResource)
	}

	if len(req.Periods) == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoPeriods)
	}

	periods, badLabel := models.NewPeriodSet(req.Periods)
	if badLabel != "" {
		return nil, fmt.Errorf("%s: unknown period %q: %w", op, badLabel, response.ErrBadRequest)
	}

	if strings.TrimSpace(req.Requester) == "" || strings.TrimSpace(req.GroupLabel) == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrMissingField)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	shift, ok := models.ParseShift(req.Shift)
	if !ok {
		return nil, fmt.Errorf("%s: invalid shift %q: %w", op, req.Shift, response.ErrBadRequest)
	}

	slotKey := lock.SlotKey(string(rt), req.ResourceInstanceID, req.Date, string(shift))

	locked, err := s.locker.Lock(ctx, slotKey, slotLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if locked {
		defer func() {
			_ = s.locker.Unlock(ctx, slotKey)
		}()

		existing, err := s.store.FindConflict(ctx, rt, req.ResourceInstanceID, date, shift, periods)
		if err == nil {
			return nil, conflictError(op, existing, periods)
		}
		if !errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	reservation := &models.Reservation{
		ID:           uuid.NewString(),
		ResourceType: rt,
		InstanceID:   req.ResourceInstanceID,
		Date:         date,
		Shift:        shift,
		Periods:      periods,
		Requester:    req.Requester,
		GroupLabel:   req.GroupLabel,
		Attributes:   req.Attributes,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.withRetries(ctx, func() error {
		return s.store.CreateReservation(ctx, reservation)
	})
	if errors.Is(err, response.ErrConflict) {
		existing, findErr := s.store.FindConflict(ctx, rt, req.ResourceInstanceID, date, shift, periods)
		if findErr == nil {
			return nil, conflictError(op, existing, periods)
		}

		return nil, fmt.Errorf("%s: %w", op, response.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toResponse(reservation)

	s.publish(ctx, notify.Event{
		Kind:         notify.KindCreated,
		ID:           reservation.ID,
		ResourceType: rt,
		Reservation:  resp,
	})

	return resp, nil
}

func (s *Service) GetReservation(ctx context.Context, id string) (*api.ReservationResponse, error) {
	const op = "service.GetReservation"

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toResponse(reservation), nil
}

func (s *Service) ListReservations(ctx context.Context, resourceType string, from, to *time.Time) ([]*api.ReservationResponse, error) {
	const op = "service.ListReservations"

	rt, ok := models.ParseResourceType(resourceType)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, resourceType, response.ErrUnknownResource)
	}

	var reservations []*models.Reservation

	err := s.withRetries(ctx, func() error {
		var err error
		reservations, err = s.store.ListReservations(ctx, rt, from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		result = append(result, toResponse(r))
	}

	return result, nil
}

// CancelReservation deletes the reservation. A second cancel of the same id
// reports ErrNotFound, so racing cancellers can tell which one won.
func (s *Service) CancelReservation(ctx context.Context, id string) (*api.ReservationResponse, error) {
	const op = "service.CancelReservation"

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.withRetries(ctx, func() error {
		return s.store.DeleteReservation(ctx, id)
	})
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, notify.Event{
		Kind:         notify.KindCancelled,
		ID:           id,
		ResourceType: reservation.ResourceType,
	})

	return toResponse(reservation), nil
}

func (s *Service) DescribeResource(resourceType string) (*api.ResourceDescription, error) {
	const op = "service.DescribeResource"

	rt, ok := models.ParseResourceType(resourceType)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, resourceType, response.ErrUnknownResource)
	}

	instances, err := s.catalog.Instances(rt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	specs, err := s.catalog.Attributes(rt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fields := make([]api.AttributeField, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, api.AttributeField{
			Name: spec.Name,
			Kind: string(spec.Kind),
		})
	}

	return &api.ResourceDescription{
		ResourceType: string(rt),
		Instances:    instances,
		Attributes:   fields,
	}, nil
}

// withRetries re-runs fn on storage failures. Domain errors (not found,
// conflict, validation) are never retried.
func (s *Service) withRetries(ctx context.Context, fn func() error) error {
	var err error

	for attempt := 0; attempt < storageAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}

		s.log.Warn("Storage operation failed, retrying",
			slog.Int("attempt", attempt+1), sl.Err(err))
	}

	return err
}

func isTransient(err error) bool {
	switch {
	case errors.Is(err, response.ErrNotFound),
		errors.Is(err, response.ErrConflict),
		errors.Is(err, response.ErrUnknownResource),
		errors.Is(err, response.ErrNoPeriods),
		errors.Is(err, response.ErrMissingField),
		errors.Is(err, response.ErrBadRequest),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// publish failures do not fail the request: the record is already durable
// and subscribers reconcile from ListReservations anyway.
func (s *Service) publish(ctx context.Context, event notify.Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish reservation event",
			slog.String("id", event.ID),
			slog.String("kind", string(event.Kind)),
			sl.Err(err),
		)
	}
}

func conflictError(op string, existing *models.Reservation, requested models.PeriodSet) error {
	overlap := requested.Intersect(existing.Periods)

	return fmt.Errorf("%s: %w", op, &response.ConflictError{
		Requester:  existing.Requester,
		GroupLabel: existing.GroupLabel,
		Periods:    overlap.Labels(),
	})
}

func toResponse(r *models.Reservation) *api.ReservationResponse {
	return &api.ReservationResponse{
		ID:                 r.ID,
		ResourceType:       string(r.ResourceType),
		ResourceInstanceID: r.InstanceID,
		Date:               r.Date.Format(dateLayout),
		Shift:              string(r.Shift),
		Periods:            r.Periods.Labels(),
		Requester:          r.Requester,
		GroupLabel:         r.GroupLabel,
		Attributes:         r.Attributes,
		Notes:              r.Notes,
		CreatedBy:          r.CreatedBy,
		CreatedAt:          r.CreatedAt,
	}
}
