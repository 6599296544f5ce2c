package postgres

import (
	"reservas-service/internal/models"
	"reservas-service/pkg/response"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Init creates the schema. The UNIQUE constraint on reservation_periods is
// the authoritative no-double-booking check: one row per claimed period,
// keyed by (type, instance, date, shift, period), inserted in the same
// transaction as the reservation itself.
func (s *Storage) Init(ctx context.Context) error {
	const op = "storage.postgres.Init"

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			id UUID PRIMARY KEY,
			resource_type TEXT NOT NULL,
			resource_instance_id TEXT NOT NULL,
			reserved_on DATE NOT NULL,
			shift TEXT NOT NULL,
			requester TEXT NOT NULL,
			group_label TEXT NOT NULL,
			attributes JSONB NOT NULL DEFAULT '{}',
			notes TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reservation_periods (
			reservation_id UUID NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
			resource_type TEXT NOT NULL,
			resource_instance_id TEXT NOT NULL,
			reserved_on DATE NOT NULL,
			shift TEXT NOT NULL,
			period TEXT NOT NULL,
			CONSTRAINT reservation_periods_slot_key
				UNIQUE (resource_type, resource_instance_id, reserved_on, shift, period)
		)`,
		`CREATE INDEX IF NOT EXISTS reservations_type_date_idx
			ON reservations (resource_type, reserved_on)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// CreateReservation inserts the reservation and one period row per claimed
// period in a single transaction. A unique violation on the period key means
// another reservation already holds one of the periods; the whole insert is
// rolled back and reported as ErrConflict.
func (s *Storage) CreateReservation(ctx context.Context, r *models.Reservation) error {
	const op = "storage.postgres.CreateReservation"

	attrs, err := json.Marshal(r.Attributes)
	if err != nil {
		return fmt.Errorf("%s: marshal attributes: %w", op, err)
	}
	if r.Attributes == nil {
		attrs = []byte("{}")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservations
		(id, resource_type, resource_instance_id, reserved_on, shift,
		 requester, group_label, attributes, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID,
		string(r.ResourceType),
		r.InstanceID,
		r.Date,
		string(r.Shift),
		r.Requester,
		r.GroupLabel,
		attrs,
		r.Notes,
		r.CreatedBy,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, period := range r.Periods {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_periods
			(reservation_id, resource_type, resource_instance_id, reserved_on, shift, period)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID,
			string(r.ResourceType),
			r.InstanceID,
			r.Date,
			string(r.Shift),
			string(period),
		)
		if err != nil {
			sqlErr, ok := err.(*pq.Error)
			if ok && sqlErr.Code == "23505" {
				return fmt.Errorf("%s: %w", op, response.ErrConflict)
			}

			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// FindConflict returns the earliest-created reservation holding any of the
// given periods on the slot, or ErrNotFound when the slot is free.
func (s *Storage) FindConflict(ctx context.Context, rt models.ResourceType, instanceID string, date time.Time, shift models.Shift, periods models.PeriodSet) (*models.Reservation, error) {
	const op = "storage.postgres.FindConflict"

	var id string

	err := s.db.QueryRowContext(ctx,
		`SELECT r.id
		FROM reservations r
		JOIN reservation_periods p ON p.reservation_id = r.id
		WHERE p.resource_type=$1 AND p.resource_instance_id=$2
			AND p.reserved_on=$3 AND p.shift=$4 AND p.period = ANY($5)
		ORDER BY r.created_at
		LIMIT 1`,
		string(rt),
		instanceID,
		date,
		string(shift),
		pq.Array(periods.Labels()),
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetReservation(ctx, id)
}

func (s *Storage) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "storage.postgres.GetReservation"

	var r models.Reservation
	var resourceType, shift string
	var attrs []byte
	var periods []string

	err := s.db.QueryRowContext(ctx,
		`SELECT r.id, r.resource_type, r.resource_instance_id, r.reserved_on, r.shift,
			r.requester, r.group_label, r.attributes, r.notes, r.created_by, r.created_at,
			array_agg(p.period ORDER BY p.period)
		FROM reservations r
		JOIN reservation_periods p ON p.reservation_id = r.id
		WHERE r.id=$1
		GROUP BY r.id`,
		id,
	).Scan(
		&r.ID,
		&resourceType,
		&r.InstanceID,
		&r.Date,
		&shift,
		&r.Requester,
		&r.GroupLabel,
		&attrs,
		&r.Notes,
		&r.CreatedBy,
		&r.CreatedAt,
		pq.Array(&periods),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.ResourceType = models.ResourceType(resourceType)
	r.Shift = models.Shift(shift)
	r.Periods, _ = models.NewPeriodSet(periods)

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &r.Attributes); err != nil {
			return nil, fmt.Errorf("%s: unmarshal attributes: %w", op, err)
		}
	}

	return &r, nil
}

func (s *Storage) ListReservations(ctx context.Context, rt models.ResourceType, from, to *time.Time) ([]*models.Reservation, error) {
	const op = "storage.postgres.ListReservations"

	query := `SELECT r.id, r.resource_type, r.resource_instance_id, r.reserved_on, r.shift,
			r.requester, r.group_label, r.attributes, r.notes, r.created_by, r.created_at,
			array_agg(p.period ORDER BY p.period)
		FROM reservations r
		JOIN reservation_periods p ON p.reservation_id = r.id
		WHERE r.resource_type=$1`
	args := []any{string(rt)}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND r.reserved_on >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND r.reserved_on <= $%d", len(args))
	}

	query += ` GROUP BY r.id ORDER BY r.reserved_on, r.created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var reservations []*models.Reservation

	for rows.Next() {
		var r models.Reservation
		var resourceType, shift string
		var attrs []byte
		var periods []string

		err := rows.Scan(
			&r.ID,
			&resourceType,
			&r.InstanceID,
			&r.Date,
			&shift,
			&r.Requester,
			&r.GroupLabel,
			&attrs,
			&r.Notes,
			&r.CreatedBy,
			&r.CreatedAt,
			pq.Array(&periods),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		r.ResourceType = models.ResourceType(resourceType)
		r.Shift = models.Shift(shift)
		r.Periods, _ = models.NewPeriodSet(periods)

		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &r.Attributes); err != nil {
				return nil, fmt.Errorf("%s: unmarshal attributes: %w", op, err)
			}
		}

		reservations = append(reservations, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reservations, nil
}

// DeleteReservation removes the reservation and, via ON DELETE CASCADE, its
// period rows. Deleting an id that is already gone reports ErrNotFound so a
// racing cancel can tell it lost.
func (s *Storage) DeleteReservation(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteReservation"

	res, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
