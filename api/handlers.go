package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meetwhen/config"
	"meetwhen/event"
	"meetwhen/logger"
	"meetwhen/member"
	"meetwhen/metrics"
	"meetwhen/ratelimit"
	"meetwhen/schedule"
	"meetwhen/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type API struct {
	root     *mux.Router
	router   *mux.Router
	db       *sqlx.DB
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *metrics.Metrics
	limiter  *ratelimit.Limiter
	now      func() time.Time
}

type Option func(*API)

// WithLimiter throttles the submission routes.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(a *API) { a.limiter = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

func NewAPI(db *sqlx.DB, cfg *config.Config, log *zap.Logger, opts ...Option) *API {
	if log == nil {
		log = zap.NewNop()
	}
	root := mux.NewRouter()
	a := &API{
		root:     root,
		router:   root.PathPrefix(cfg.APIPrefix).Subrouter(),
		db:       db,
		cfg:      cfg,
		logger:   log,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	a.root.Use(a.metrics.Middleware)
	return a
}

// Router returns the bare router, without the outer middleware stack.
func (a *API) Router() http.Handler {
	return a.root
}

func (a *API) Handler() http.Handler {
	var h http.Handler = a.root
	h = logger.Middleware(a.logger)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(zap.NewStdLog(a.logger)), handlers.PrintRecoveryStack(false))(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(a.cfg.CORS.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	if a.cfg.TrustProxyHeaders {
		h = handlers.ProxyHeaders(h)
	}
	return h
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		a.logger.Error("encode response", zap.Error(err))
	}
}

// Error maps domain errors onto HTTP statuses. Anything unrecognised is logged and hidden
// behind a 500.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	var shapeErr *schedule.InputShapeError
	switch {
	case errors.Is(err, event.ErrInvalidEvent):
		a.Response(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, event.ErrEventNotFound):
		a.Response(w, http.StatusNotFound, err.Error())
	case errors.Is(err, event.ErrNotCreator):
		a.Response(w, http.StatusForbidden, err.Error())
	case errors.Is(err, event.ErrEventLocked),
		errors.Is(err, member.ErrAlreadyMember),
		errors.Is(err, user.ErrTelegramIDTaken):
		a.Response(w, http.StatusConflict, err.Error())
	case errors.As(err, &shapeErr):
		a.Response(w, http.StatusUnprocessableEntity, err.Error())
	default:
		a.logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		a.Response(w, http.StatusInternalServerError, "internal server error")
	}
}

func (a *API) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := a.validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// pathID parses the uuid path variable name, writing a 400 on failure.
func (a *API) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		a.Response(w, http.StatusBadRequest, name+" is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) submission(h http.HandlerFunc) http.Handler {
	if a.limiter == nil {
		return h
	}
	return a.limiter.Middleware(h)
}

func (a *API) RegisterRoutes() {
	a.root.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	a.router.HandleFunc("/users", a.findUser).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.updateUser).Methods(http.MethodPut)
	a.router.HandleFunc("/users/{id}/events", a.getUserEvents).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}/availability", a.getUserAvailability).Methods(http.MethodGet)

	a.router.HandleFunc("/events", a.createEvent).Methods(http.MethodPost)
	a.router.HandleFunc("/events", a.getEvents).Methods(http.MethodGet)
	a.router.HandleFunc("/events/share/{code}", a.getEventByShareCode).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}", a.getEvent).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}", a.updateEvent).Methods(http.MethodPut)
	a.router.HandleFunc("/events/{id}", a.deleteEvent).Methods(http.MethodDelete)

	a.router.HandleFunc("/events/{id}/members", a.addMember).Methods(http.MethodPost)
	a.router.HandleFunc("/events/{id}/members", a.getMembers).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}/members/{user_id}", a.removeMember).Methods(http.MethodDelete)

	a.router.Handle("/events/{id}/availability/{user_id}", a.submission(a.putAvailability)).Methods(http.MethodPut)
	a.router.HandleFunc("/events/{id}/availability", a.getEventAvailability).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}/availability/{user_id}", a.getAvailability).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}/availability/{user_id}", a.deleteAvailability).Methods(http.MethodDelete)

	a.router.Handle("/webapp-submit", a.submission(a.webappSubmit)).Methods(http.MethodPost)

	a.router.HandleFunc("/events/{id}/best-times", a.getBestTimes).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}/best-times.ics", a.getBestTimesCalendar).Methods(http.MethodGet)
}
