package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"meetwhen/database"
	"time"

	"github.com/google/uuid"
)

const selectUser = `SELECT id, name, telegram_user_id, created_at FROM users`

func (a *Accessor) CreateUser(ctx context.Context, user User, now time.Time) (*User, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	user.ID = uuid.New()
	user.CreatedAt = now

	query := `INSERT INTO users (id, name, telegram_user_id, created_at) VALUES (:id, :name, :telegram_user_id, :created_at)`
	if _, err := a.db.NamedExecContext(ctx, query, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrTelegramIDTaken
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &user, nil
}

func (a *Accessor) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (a *Accessor) GetUserByTelegramID(ctx context.Context, telegramUserID string) (*User, error) {
	return a.getOne(ctx, selectUser+` WHERE telegram_user_id = $1`, telegramUserID)
}

func (a *Accessor) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	if err := a.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get context: %w", err)
	}
	return &user, nil
}

// UpdateUser changes the name and/or telegram id; empty values leave the column untouched.
func (a *Accessor) UpdateUser(ctx context.Context, id uuid.UUID, name string, telegramUserID *string) (*User, error) {
	query := `UPDATE users SET name = COALESCE(NULLIF($1, ''), name), telegram_user_id = COALESCE($2, telegram_user_id) WHERE id = $3`
	res, err := a.db.ExecContext(ctx, query, name, telegramUserID, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrTelegramIDTaken
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return a.GetUser(ctx, id)
}

// ResolveUser finds the user behind a mini-app submission: by id, then by telegram id, and
// finally creates one from the display name. It returns nil when nothing identifies a user.
func (a *Accessor) ResolveUser(ctx context.Context, id *uuid.UUID, telegramUserID, name string, now time.Time) (*User, error) {
	if id != nil {
		return a.GetUser(ctx, *id)
	}

	if telegramUserID != "" {
		existing, err := a.GetUserByTelegramID(ctx, telegramUserID)
		if err != nil {
			return nil, fmt.Errorf("get user by telegram id: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if name == "" || name == AnonymousName {
		return nil, nil
	}

	newUser := User{Name: name}
	if telegramUserID != "" {
		newUser.TelegramUserID = &telegramUserID
	}
	created, err := a.CreateUser(ctx, newUser, now)
	if errors.Is(err, ErrTelegramIDTaken) {
		// A concurrent first submission created the user between the lookup and the insert.
		return a.GetUserByTelegramID(ctx, telegramUserID)
	}
	return created, err
}
