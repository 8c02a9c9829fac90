package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"meetwhen/availability"
	"meetwhen/schedule"
	"time"

	"github.com/google/uuid"
)

// DATE and TIME columns are rendered as text so the grid strings round-trip unchanged.
const selectEvent = `SELECT id, share_code, name, description, creator_id,
	to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date,
	to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time,
	timezone, created_at FROM events`

func (a *Accessor) CreateEvent(ctx context.Context, event Event, now time.Time) (*Event, error) {
	if event.Timezone == "" {
		event.Timezone = DefaultTimezone
	}
	if err := event.ValidateWithin(a.maxDays); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	code, err := NewShareCode()
	if err != nil {
		return nil, fmt.Errorf("share code: %w", err)
	}
	event.ID = uuid.New()
	event.ShareCode = code
	event.CreatedAt = now

	query := `INSERT INTO events (id, share_code, name, description, creator_id, start_date, end_date, start_time, end_time, timezone, created_at)
		VALUES (:id, :share_code, :name, :description, :creator_id, :start_date, :end_date, :start_time, :end_time, :timezone, :created_at)`
	if _, err := a.db.NamedExecContext(ctx, query, event); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &event, nil
}

func (a *Accessor) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return a.getOne(ctx, selectEvent+` WHERE id = $1`, id)
}

func (a *Accessor) GetEventByShareCode(ctx context.Context, code string) (*Event, error) {
	return a.getOne(ctx, selectEvent+` WHERE share_code = $1`, code)
}

func (a *Accessor) getOne(ctx context.Context, query string, arg any) (*Event, error) {
	var event Event
	if err := a.db.GetContext(ctx, &event, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get context: %w", err)
	}
	return &event, nil
}

func (a *Accessor) GetEventsByCreator(ctx context.Context, creatorID uuid.UUID) ([]Event, error) {
	events := []Event{}
	query := selectEvent + ` WHERE creator_id = $1 ORDER BY created_at DESC`
	if err := a.db.SelectContext(ctx, &events, query, creatorID); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return events, nil
}

// UpdateEvent applies upd to the event. Only the creator may update, and the date and time
// window is frozen once anybody has submitted availability. Share code, creator and
// created_at never change.
func (a *Accessor) UpdateEvent(ctx context.Context, id, creatorID uuid.UUID, upd Update) (*Event, error) {
	existing, err := a.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if existing == nil {
		return nil, ErrEventNotFound
	}
	if existing.CreatorID != creatorID {
		return nil, ErrNotCreator
	}

	event := upd.apply(*existing)
	if err := event.ValidateWithin(a.maxDays); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	query := `UPDATE events SET name = :name, description = :description, start_date = :start_date, end_date = :end_date,
		start_time = :start_time, end_time = :end_time, timezone = :timezone WHERE id = :id`

	gridChanged := !existing.sameGrid(&event)
	if gridChanged {
		locked, err := a.availability.HasAvailability(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("has availability: %w", err)
		}
		if locked {
			return nil, ErrEventLocked
		}
		// A submission may land after the check above; the statement re-checks atomically.
		query += ` AND NOT EXISTS (SELECT 1 FROM user_availability WHERE event_id = :id)`
	}

	res, err := a.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	if gridChanged {
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil, ErrEventLocked
		}
	}
	return &event, nil
}

// DeleteEvent removes the event with its members and availability. Only the creator may delete.
func (a *Accessor) DeleteEvent(ctx context.Context, id, creatorID uuid.UUID) error {
	existing, err := a.GetEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if existing == nil {
		return ErrEventNotFound
	}
	if existing.CreatorID != creatorID {
		return ErrNotCreator
	}

	query := `DELETE FROM events WHERE id = $1`
	if _, err := a.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}

// ComputeBestTimes ranks the event's slot grid by how many participants are available.
// It returns ErrEventNotFound when the event does not exist and a *schedule.InputShapeError
// when the stored window cannot be turned into a grid.
func (a *Accessor) ComputeBestTimes(ctx context.Context, id uuid.UUID, opts schedule.Options) (*Event, *schedule.Analysis, error) {
	event, err := a.GetEvent(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, nil, ErrEventNotFound
	}

	participants, err := a.availability.ListByEvent(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list availability: %w", err)
	}

	analysis, err := schedule.ComputeBestTimes(event.Window(), availability.ToSchedule(participants), opts)
	if err != nil {
		return nil, nil, err
	}
	return event, analysis, nil
}
