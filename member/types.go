package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyMember = errors.New("user is already a member of this event")

type Member struct {
	EventID  uuid.UUID `db:"event_id" json:"event_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// EventMember is a membership joined with the member's user record.
type EventMember struct {
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	TelegramUserID *string   `db:"telegram_user_id" json:"telegram_user_id,omitempty"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
}

// UserEvent is a membership joined with the event it belongs to.
type UserEvent struct {
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	ShareCode string    `db:"share_code" json:"share_code"`
	Name      string    `db:"name" json:"name"`
	StartDate string    `db:"start_date" json:"start_date"`
	EndDate   string    `db:"end_date" json:"end_date"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}
