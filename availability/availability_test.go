package availability_test

import (
	"database/sql"
	"errors"
	"meetwhen/availability"
	"meetwhen/schedule"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccessor(t *testing.T) (*availability.Accessor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return availability.NewAccessor(sqlx.NewDb(db, "postgres")), mock
}

var availabilityColumns = []string{"event_id", "user_id", "available_slots", "created_at", "updated_at"}

func TestSlotsColumn(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		v, err := availability.SlotsColumn(nil).Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), v)
	})

	t.Run("scan bytes and strings", func(t *testing.T) {
		var s availability.SlotsColumn
		require.NoError(t, s.Scan([]byte(`[{"date":"2024-01-15","time":"09:00"}]`)))
		assert.Equal(t, availability.SlotsColumn{{Date: "2024-01-15", Time: "09:00"}}, s)

		require.NoError(t, s.Scan(`[]`))
		assert.Empty(t, s)
	})

	t.Run("scan rejects other types", func(t *testing.T) {
		var s availability.SlotsColumn
		assert.Error(t, s.Scan(42))
	})
}

func TestAvailability(t *testing.T) {
	a, mock := setupAccessor(t)

	eventID := uuid.New()
	userID := uuid.New()
	now := time.Now()
	slots := []schedule.Slot{{Date: "2024-01-15", Time: "09:00"}, {Date: "2024-01-15", Time: "09:30"}}
	slotsJSON, err := availability.SlotsColumn(slots).Value()
	require.NoError(t, err)

	t.Run("upsert", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_availability (event_id, user_id, available_slots, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`)).
			WithArgs(eventID, userID, availability.SlotsColumn(slots), now).
			WillReturnRows(sqlmock.NewRows(availabilityColumns).AddRow(eventID.String(), userID.String(), slotsJSON, now, now))

		saved, err := a.Upsert(t.Context(), eventID, userID, slots, now)
		require.NoError(t, err)
		assert.Equal(t, eventID, saved.EventID)
		assert.Equal(t, userID, saved.UserID)
		assert.Equal(t, availability.SlotsColumn(slots), saved.Slots)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upsert error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_availability`)).
			WillReturnError(errors.New("connection reset"))

		_, err := a.Upsert(t.Context(), eventID, userID, slots, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upsert")
	})

	t.Run("get", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT event_id, user_id, available_slots, created_at, updated_at FROM user_availability WHERE event_id = $1 AND user_id = $2`)).
			WithArgs(eventID, userID).
			WillReturnRows(sqlmock.NewRows(availabilityColumns).AddRow(eventID.String(), userID.String(), slotsJSON, now, now))

		got, err := a.Get(t.Context(), eventID, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Slots, 2)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get - no rows", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM user_availability WHERE event_id = $1 AND user_id = $2`)).
			WithArgs(eventID, userID).
			WillReturnError(sql.ErrNoRows)

		got, err := a.Get(t.Context(), eventID, userID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list by event", func(t *testing.T) {
		otherID := uuid.New()
		tg := "12345"
		mock.ExpectQuery(regexp.QuoteMeta(`FROM user_availability ua
		JOIN users u ON u.id = ua.user_id`)).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "telegram_user_id", "available_slots", "updated_at"}).
				AddRow(userID.String(), "Alice", tg, slotsJSON, now).
				AddRow(otherID.String(), "Bob", nil, []byte(`[]`), now))

		participants, err := a.ListByEvent(t.Context(), eventID)
		require.NoError(t, err)
		require.Len(t, participants, 2)

		records := availability.ToSchedule(participants)
		require.Len(t, records, 2)
		assert.Equal(t, userID.String(), records[0].ParticipantID)
		assert.Equal(t, "Alice", records[0].Name)
		require.NotNil(t, records[0].ExternalID)
		assert.Equal(t, tg, *records[0].ExternalID)
		assert.Equal(t, slots, records[0].Slots)
		assert.Nil(t, records[1].ExternalID)
		assert.Empty(t, records[1].Slots)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list by user", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM user_availability WHERE user_id = $1 ORDER BY created_at`)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(availabilityColumns).AddRow(eventID.String(), userID.String(), slotsJSON, now, now))

		items, err := a.ListByUser(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, eventID, items[0].EventID)
	})

	t.Run("has availability", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM user_availability WHERE event_id = $1)`)).
			WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := a.HasAvailability(t.Context(), eventID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		deleteQuery := `DELETE FROM user_availability WHERE event_id = $1 AND user_id = $2`
		mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(eventID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(eventID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := a.Delete(t.Context(), eventID, userID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = a.Delete(t.Context(), eventID, userID)
		require.NoError(t, err)
		assert.False(t, deleted)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
