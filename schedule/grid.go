package schedule

import (
	"fmt"
	"time"
)

// GenerateDateRange returns every calendar day from start to end inclusive, ascending.
// A reversed range yields an empty slice.
func GenerateDateRange(start, end string) ([]string, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, &InputShapeError{Field: "start_date", Value: start}
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, &InputShapeError{Field: "end_date", Value: end}
	}

	dates := []string{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// DaySpan returns the number of calendar days from start to end inclusive, or 0 when the
// range is reversed.
func DaySpan(start, end string) (int, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, &InputShapeError{Field: "start_date", Value: start}
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, &InputShapeError{Field: "end_date", Value: end}
	}
	if to.Before(from) {
		return 0, nil
	}
	// Unix seconds rather than Sub: a Duration saturates at about 292 years.
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1, nil
}

const secondsPerDay = 24 * 60 * 60

// GenerateTimeSlots returns the slot start times in [start, end) stepping by intervalMinutes.
// Only slots that fit entirely inside the window are emitted, so a trailing partial slot is
// dropped: 09:00-10:45 at 30 minutes ends with 10:00, not with a 15-minute 10:30 slot as a
// plain "start < end" step would produce.
func GenerateTimeSlots(start, end string, intervalMinutes int) ([]string, error) {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultInterval
	}
	from, err := clockMinutes(start)
	if err != nil {
		return nil, &InputShapeError{Field: "start_time", Value: start}
	}
	to, err := clockMinutes(end)
	if err != nil {
		return nil, &InputShapeError{Field: "end_time", Value: end}
	}

	times := []string{}
	for m := from; m+intervalMinutes <= to; m += intervalMinutes {
		times = append(times, formatMinutes(m))
	}
	return times, nil
}

func clockMinutes(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
