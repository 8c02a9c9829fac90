package member

import (
	"context"
	"fmt"
	"meetwhen/database"
	"time"

	"github.com/google/uuid"
)

func (a *Accessor) AddMember(ctx context.Context, eventID, userID uuid.UUID, now time.Time) (*Member, error) {
	m := Member{EventID: eventID, UserID: userID, JoinedAt: now}

	query := `INSERT INTO event_members (event_id, user_id, joined_at) VALUES (:event_id, :user_id, :joined_at)`
	if _, err := a.db.NamedExecContext(ctx, query, m); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}
	return &m, nil
}

func (a *Accessor) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]EventMember, error) {
	query := `SELECT m.user_id, u.name, u.telegram_user_id, m.joined_at
		FROM event_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1
		ORDER BY m.joined_at`

	members := []EventMember{}
	if err := a.db.SelectContext(ctx, &members, query, eventID); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return members, nil
}

func (a *Accessor) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserEvent, error) {
	query := `SELECT m.event_id, e.share_code, e.name,
		to_char(e.start_date, 'YYYY-MM-DD') AS start_date, to_char(e.end_date, 'YYYY-MM-DD') AS end_date, m.joined_at
		FROM event_members m
		JOIN events e ON e.id = m.event_id
		WHERE m.user_id = $1
		ORDER BY e.start_date, m.joined_at`

	events := []UserEvent{}
	if err := a.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return events, nil
}

// RemoveMember deletes the membership and reports whether it existed.
func (a *Accessor) RemoveMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM event_members WHERE event_id = $1 AND user_id = $2`
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
