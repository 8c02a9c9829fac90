package schedule

import (
	"fmt"
	"strings"
)

// ComputeBestTimes builds the event grid, ranks it against the submitted availability and
// returns the best Options.Limit slots. Only a malformed or oversized window is an error; an
// empty grid is reported through Analysis.Warnings.
func ComputeBestTimes(window EventWindow, records []ParticipantAvailability, opts Options) (*Analysis, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	span, err := DaySpan(window.StartDate, window.EndDate)
	if err != nil {
		return nil, err
	}
	if span > maxDays {
		return nil, &InputShapeError{
			Field:  "end_date",
			Value:  window.EndDate,
			Reason: fmt.Sprintf("event spans %d days, the maximum is %d", span, maxDays),
		}
	}

	dates, err := GenerateDateRange(window.StartDate, window.EndDate)
	if err != nil {
		return nil, err
	}
	times, err := GenerateTimeSlots(window.StartTime, window.EndTime, opts.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	if cells := len(dates) * len(times); cells > MaxGridSlots {
		return nil, &InputShapeError{
			Field:  "grid",
			Reason: fmt.Sprintf("%d dates x %d times exceeds %d slots", len(dates), len(times), MaxGridSlots),
		}
	}

	analysis := &Analysis{
		EventDates:         dates,
		EventTimes:         times,
		ParticipantCount:   len(records),
		TotalPossibleSlots: len(dates) * len(times),
		Participants:       summarize(records),
	}
	if analysis.TotalPossibleSlots == 0 {
		analysis.BestTimes = []BestTime{}
		analysis.Warnings = append(analysis.Warnings, &DegenerateGridWarning{Dates: len(dates), Times: len(times)})
		return analysis, nil
	}

	ranked := Aggregate(records, dates, times)
	analysis.BestTimes = Assemble(SelectTop(ranked, opts.Limit), NewRoster(records))
	return analysis, nil
}

// Validate checks that every field of the window is present.
func (w EventWindow) Validate() error {
	fields := []struct{ name, value string }{
		{"start_date", w.StartDate},
		{"end_date", w.EndDate},
		{"start_time", w.StartTime},
		{"end_time", w.EndTime},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &InputShapeError{Field: f.name}
		}
	}
	return nil
}

func summarize(records []ParticipantAvailability) []ParticipantSummary {
	out := make([]ParticipantSummary, 0, len(records))
	for _, r := range records {
		name := r.Name
		if name == "" {
			name = UnknownParticipant
		}
		out = append(out, ParticipantSummary{
			Participant: Participant{ID: r.ParticipantID, Name: name, ExternalID: r.ExternalID},
			SlotsCount:  len(r.Slots),
		})
	}
	return out
}
