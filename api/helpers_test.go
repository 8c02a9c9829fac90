package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"meetwhen/api"
	"meetwhen/config"
	"meetwhen/event"
	"meetwhen/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

var (
	eventColumns = []string{"id", "share_code", "name", "description", "creator_id", "start_date", "end_date", "start_time", "end_time", "timezone", "created_at"}
	userColumns  = []string{"id", "name", "telegram_user_id", "created_at"}
)

const (
	selectEventQuery       = `FROM events WHERE id = $1`
	selectUserQuery        = `FROM users WHERE id = $1`
	selectUserByTeleQuery  = `FROM users WHERE telegram_user_id = $1`
	upsertAvailabilityStmt = `INSERT INTO user_availability`
)

func testConfig() *config.Config {
	return &config.Config{
		APIPrefix: "/api",
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		Schedule:  config.ScheduleConfig{IntervalMinutes: 30, DefaultLimit: 10, MaxEventDays: 366},
	}
}

func setupAPI(t *testing.T, opts ...api.Option) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	return setupAPIWithConfig(t, testConfig(), opts...)
}

func setupAPIWithConfig(t *testing.T, cfg *config.Config, opts ...api.Option) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	opts = append([]api.Option{api.WithClock(func() time.Time { return fixedNow })}, opts...)
	a := api.NewAPI(sqlx.NewDb(db, "postgres"), cfg, zap.NewNop(), opts...)
	a.RegisterRoutes()
	return a, dbMock
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func testEvent(creator user.User) event.Event {
	return event.Event{
		ID:        uuid.MustParse("5b0cbd0e-2f0a-4c43-9d5e-0f7a3c2e9b11"),
		ShareCode: "AbCdEfGh12345678",
		Name:      "Team sync",
		CreatorID: creator.ID,
		StartDate: "2024-01-15",
		EndDate:   "2024-01-16",
		StartTime: "09:00",
		EndTime:   "10:00",
		Timezone:  "UTC",
		CreatedAt: fixedNow,
	}
}

func expectEvent(dbMock sqlmock.Sqlmock, e event.Event) {
	dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery)).
		WithArgs(e.ID).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(e.ID.String(), e.ShareCode, e.Name, e.Description, e.CreatorID.String(),
			e.StartDate, e.EndDate, e.StartTime, e.EndTime, e.Timezone, e.CreatedAt))
}

func expectUser(dbMock sqlmock.Sqlmock, u user.User) {
	dbMock.ExpectQuery(regexp.QuoteMeta(selectUserQuery)).
		WithArgs(u.ID).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(u.ID.String(), u.Name, nullable(u.TelegramUserID), u.CreatedAt))
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// memoryCounter is an in-process ratelimit.Counter.
type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *memoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

func doRequestWithOrigin(t *testing.T, h http.Handler, path, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
