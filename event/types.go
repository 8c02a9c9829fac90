package event

import (
	"errors"
	"fmt"
	"meetwhen/schedule"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultTimezone = "UTC"
	shareCodeLength = 16
	shareAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrEventNotFound = errors.New("event not found")
	ErrNotCreator    = errors.New("only the event creator can change the event")
	// ErrEventLocked is returned when the grid of an event that already has availability is edited.
	ErrEventLocked = errors.New("event dates and times cannot change once availability has been submitted")
)

type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ShareCode   string    `db:"share_code" json:"share_code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatorID   uuid.UUID `db:"creator_id" json:"creator_id"`
	StartDate   string    `db:"start_date" json:"start_date"`
	EndDate     string    `db:"end_date" json:"end_date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Timezone    string    `db:"timezone" json:"timezone"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Validate reports a malformed event with an error wrapping ErrInvalidEvent. Events may span
// at most schedule.DefaultMaxDays days.
func (e *Event) Validate() error {
	return e.ValidateWithin(schedule.DefaultMaxDays)
}

// ValidateWithin is Validate with a custom cap on the number of days; maxDays <= 0 means
// schedule.DefaultMaxDays.
func (e *Event) ValidateWithin(maxDays int) error {
	if maxDays <= 0 {
		maxDays = schedule.DefaultMaxDays
	}
	if err := e.validate(maxDays); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, err)
	}
	return nil
}

func (e *Event) validate(maxDays int) error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("name is required")
	}
	if e.CreatorID == uuid.Nil {
		return errors.New("creator ID is required")
	}

	startDate, err := time.Parse(time.DateOnly, e.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q", e.StartDate)
	}
	endDate, err := time.Parse(time.DateOnly, e.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q", e.EndDate)
	}
	if startDate.After(endDate) {
		return errors.New("start date is after end date")
	}
	if span, err := schedule.DaySpan(e.StartDate, e.EndDate); err != nil || span > maxDays {
		return fmt.Errorf("event spans more than %d days", maxDays)
	}

	startTime, err := time.Parse("15:04", e.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q", e.StartTime)
	}
	endTime, err := time.Parse("15:04", e.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q", e.EndTime)
	}
	if !startTime.Before(endTime) {
		return errors.New("start time must be before end time")
	}

	if e.Timezone == "" {
		return errors.New("timezone is required")
	}
	if _, err := time.LoadLocation(e.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q", e.Timezone)
	}
	return nil
}

// Window returns the part of the event the slot grid is generated from.
func (e *Event) Window() schedule.EventWindow {
	return schedule.EventWindow{
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// Update lists the event fields to change; nil fields keep their current value.
type Update struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Timezone    *string `json:"timezone"`
}

func (u Update) apply(e Event) Event {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Name, u.Name)
	set(&e.Description, u.Description)
	set(&e.StartDate, u.StartDate)
	set(&e.EndDate, u.EndDate)
	set(&e.StartTime, u.StartTime)
	set(&e.EndTime, u.EndTime)
	set(&e.Timezone, u.Timezone)
	return e
}

func (e *Event) sameGrid(other *Event) bool {
	return e.StartDate == other.StartDate && e.EndDate == other.EndDate &&
		e.StartTime == other.StartTime && e.EndTime == other.EndTime
}

// NewShareCode returns a random code participants use to open the event.
func NewShareCode() (string, error) {
	return gonanoid.Generate(shareAlphabet, shareCodeLength)
}
