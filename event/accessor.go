package event

import (
	"context"
	"meetwhen/availability"
	"meetwhen/schedule"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AvailabilityLister interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]availability.Participant, error)
	HasAvailability(ctx context.Context, eventID uuid.UUID) (bool, error)
}

type Accessor struct {
	db           *sqlx.DB
	availability AvailabilityLister
	maxDays      int
}

type Option func(*Accessor)

// WithMaxDays sets the longest event, in days, the accessor accepts.
func WithMaxDays(days int) Option {
	return func(a *Accessor) { a.maxDays = days }
}

func NewAccessor(db *sqlx.DB, availability AvailabilityLister, opts ...Option) *Accessor {
	a := &Accessor{
		db:           db,
		availability: availability,
		maxDays:      schedule.DefaultMaxDays,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
