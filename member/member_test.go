package member_test

import (
	"errors"
	"meetwhen/member"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	a := member.NewAccessor(sqlx.NewDb(db, "postgres"))

	eventID := uuid.New()
	userID := uuid.New()
	now := time.Now()
	insertQuery := `INSERT INTO event_members (event_id, user_id, joined_at) VALUES ($1, $2, $3)`

	t.Run("add member", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(eventID, userID, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		m, err := a.AddMember(t.Context(), eventID, userID, now)
		require.NoError(t, err)
		assert.Equal(t, member.Member{EventID: eventID, UserID: userID, JoinedAt: now}, *m)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add member twice", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(eventID, userID, now).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := a.AddMember(t.Context(), eventID, userID, now)
		require.ErrorIs(t, err, member.ErrAlreadyMember)
	})

	t.Run("add member db error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WillReturnError(errors.New("connection refused"))

		_, err := a.AddMember(t.Context(), eventID, userID, now)
		require.Error(t, err)
		assert.NotErrorIs(t, err, member.ErrAlreadyMember)
	})

	t.Run("list by event", func(t *testing.T) {
		tg := "4242"
		mock.ExpectQuery(regexp.QuoteMeta(`FROM event_members m JOIN users u ON u.id = m.user_id WHERE m.event_id = $1`)).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "telegram_user_id", "joined_at"}).
				AddRow(userID.String(), "Alice", tg, now))

		members, err := a.ListByEvent(t.Context(), eventID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Alice", members[0].Name)
		require.NotNil(t, members[0].TelegramUserID)
		assert.Equal(t, tg, *members[0].TelegramUserID)
	})

	t.Run("list by user", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM event_members m JOIN events e ON e.id = m.event_id WHERE m.user_id = $1`)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "share_code", "name", "start_date", "end_date", "joined_at"}).
				AddRow(eventID.String(), "AbCdEfGh12345678", "Team sync", "2024-01-15", "2024-01-16", now))

		events, err := a.ListByUser(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, eventID, events[0].EventID)
		assert.Equal(t, "2024-01-15", events[0].StartDate)
	})

	t.Run("remove member", func(t *testing.T) {
		deleteQuery := `DELETE FROM event_members WHERE event_id = $1 AND user_id = $2`
		mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(eventID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(eventID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := a.RemoveMember(t.Context(), eventID, userID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = a.RemoveMember(t.Context(), eventID, userID)
		require.NoError(t, err)
		assert.False(t, removed)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
