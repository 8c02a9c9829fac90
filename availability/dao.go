package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"meetwhen/schedule"
	"time"

	"github.com/google/uuid"
)

const selectAvailability = `SELECT event_id, user_id, available_slots, created_at, updated_at FROM user_availability`

// Upsert stores the participant's slots for the event, replacing any previous submission.
func (a *Accessor) Upsert(ctx context.Context, eventID, userID uuid.UUID, slots []schedule.Slot, now time.Time) (*Availability, error) {
	query := `INSERT INTO user_availability (event_id, user_id, available_slots, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET available_slots = EXCLUDED.available_slots, updated_at = EXCLUDED.updated_at
		RETURNING event_id, user_id, available_slots, created_at, updated_at`

	var saved Availability
	if err := a.db.GetContext(ctx, &saved, query, eventID, userID, SlotsColumn(slots), now); err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return &saved, nil
}

func (a *Accessor) Get(ctx context.Context, eventID, userID uuid.UUID) (*Availability, error) {
	var av Availability
	query := selectAvailability + ` WHERE event_id = $1 AND user_id = $2`
	if err := a.db.GetContext(ctx, &av, query, eventID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get context: %w", err)
	}
	return &av, nil
}

// ListByEvent returns every submission for the event with the submitter's display data,
// oldest submission first.
func (a *Accessor) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Participant, error) {
	query := `SELECT ua.user_id, u.name, u.telegram_user_id, ua.available_slots, ua.updated_at
		FROM user_availability ua
		JOIN users u ON u.id = ua.user_id
		WHERE ua.event_id = $1
		ORDER BY ua.created_at, ua.user_id`

	participants := []Participant{}
	if err := a.db.SelectContext(ctx, &participants, query, eventID); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return participants, nil
}

func (a *Accessor) ListByUser(ctx context.Context, userID uuid.UUID) ([]Availability, error) {
	items := []Availability{}
	query := selectAvailability + ` WHERE user_id = $1 ORDER BY created_at`
	if err := a.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return items, nil
}

func (a *Accessor) HasAvailability(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_availability WHERE event_id = $1)`
	if err := a.db.GetContext(ctx, &exists, query, eventID); err != nil {
		return false, fmt.Errorf("get context: %w", err)
	}
	return exists, nil
}

// Delete removes the submission and reports whether one existed.
func (a *Accessor) Delete(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM user_availability WHERE event_id = $1 AND user_id = $2`
	res, err := a.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
