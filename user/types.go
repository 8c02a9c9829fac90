package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousName is what the mini-app sends when it cannot read the user's name.
const AnonymousName = "Unknown User"

var ErrTelegramIDTaken = errors.New("telegram user id already linked to another user")

type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	TelegramUserID *string   `db:"telegram_user_id" json:"telegram_user_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name is required")
	}
	if u.TelegramUserID != nil && strings.TrimSpace(*u.TelegramUserID) == "" {
		return errors.New("telegram user id must not be blank")
	}
	return nil
}
