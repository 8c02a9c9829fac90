package availability

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"meetwhen/schedule"
	"time"

	"github.com/google/uuid"
)

type SlotsColumn []schedule.Slot

// Value implements driver.Valuer for INSERT/UPDATE.
func (s SlotsColumn) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for SELECT.
func (s *SlotsColumn) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("not a []byte: %T", value)
	}
}

// Availability is one participant's slot set for one event.
type Availability struct {
	EventID   uuid.UUID   `db:"event_id" json:"event_id"`
	UserID    uuid.UUID   `db:"user_id" json:"user_id"`
	Slots     SlotsColumn `db:"available_slots" json:"available_slots"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Participant is an availability row joined with the submitting user.
type Participant struct {
	UserID         uuid.UUID   `db:"user_id" json:"user_id"`
	Name           string      `db:"name" json:"name"`
	TelegramUserID *string     `db:"telegram_user_id" json:"telegram_user_id,omitempty"`
	Slots          SlotsColumn `db:"available_slots" json:"available_slots"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

func (p Participant) ToSchedule() schedule.ParticipantAvailability {
	return schedule.ParticipantAvailability{
		ParticipantID: p.UserID.String(),
		Name:          p.Name,
		ExternalID:    p.TelegramUserID,
		Slots:         p.Slots,
	}
}

func ToSchedule(participants []Participant) []schedule.ParticipantAvailability {
	out := make([]schedule.ParticipantAvailability, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.ToSchedule())
	}
	return out
}
