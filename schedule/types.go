package schedule

const (
	// DefaultInterval is the grid step in minutes.
	DefaultInterval = 30
	// DefaultLimit is the number of best times returned when the caller does not ask for more.
	DefaultLimit = 10
	// DefaultMaxDays is the longest event, in calendar days, a grid is built for.
	DefaultMaxDays = 366
	// MaxGridSlots bounds dates x times so a single analysis has bounded memory.
	MaxGridSlots = 100_000

	UnknownParticipant = "Unknown"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Slot is one (date, time) cell of the grid in canonical encoding.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// RawSlot is a slot as submitted by the mini-app: date "DD/MM/YYYY", time "HHMM" or "HMM".
type RawSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type ParticipantAvailability struct {
	ParticipantID string
	Name          string
	ExternalID    *string
	Slots         []Slot
}

type RankedSlot struct {
	Slot
	ParticipantIDs []string
	Percentage     float64
}

type Participant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ExternalID *string `json:"external_platform_id,omitempty"`
}

// Roster maps participant ids to their display records.
type Roster map[string]Participant

type BestTime struct {
	Date                    string        `json:"date"`
	Time                    string        `json:"time"`
	AvailableParticipantIDs []string      `json:"available_participant_ids"`
	AvailableCount          int           `json:"available_count"`
	AvailabilityPercentage  float64       `json:"availability_percentage"`
	ParticipantDetails      []Participant `json:"participant_details"`
}

type ParticipantSummary struct {
	Participant
	SlotsCount int `json:"slots_count"`
}

// EventWindow is the part of an event definition the grid is built from.
type EventWindow struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

type Options struct {
	IntervalMinutes int
	Limit           int

	// MaxDays caps the event length; zero means DefaultMaxDays.
	MaxDays int
}

type Analysis struct {
	EventDates         []string             `json:"event_dates"`
	EventTimes         []string             `json:"event_times"`
	BestTimes          []BestTime           `json:"best_times"`
	ParticipantCount   int                  `json:"participant_count"`
	TotalPossibleSlots int                  `json:"total_possible_slots"`
	Participants       []ParticipantSummary `json:"participants"`
	Warnings           []error              `json:"-"`
}
