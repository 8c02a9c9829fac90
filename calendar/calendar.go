// Package calendar exports ranked meeting slots as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"meetwhen/event"
	"meetwhen/schedule"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gosimple/slug"
)

const productID = "-//meetwhen//best times//EN"

// Encode writes one VEVENT per best time. Slot times are interpreted in the event's timezone
// and each VEVENT lasts one grid interval.
func Encode(w io.Writer, evt *event.Event, bestTimes []schedule.BestTime, intervalMinutes int, now time.Time) error {
	if intervalMinutes <= 0 {
		intervalMinutes = schedule.DefaultInterval
	}
	loc, err := time.LoadLocation(evt.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", evt.Timezone, err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, bt := range bestTimes {
		start, err := time.ParseInLocation("2006-01-02 15:04", bt.Date+" "+bt.Time, loc)
		if err != nil {
			return fmt.Errorf("parse slot %s %s: %w", bt.Date, bt.Time, err)
		}
		cal.Children = append(cal.Children, toICal(evt, bt, start, intervalMinutes, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toICal(evt *event.Event, bt schedule.BestTime, start time.Time, intervalMinutes int, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s-%s@meetwhen", evt.ID, bt.Date, strings.ReplaceAll(bt.Time, ":", "")))
	ve.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%d available, %.0f%%)", evt.Name, bt.AvailableCount, bt.AvailabilityPercentage))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(time.Duration(intervalMinutes)*time.Minute).UTC())

	names := make([]string, 0, len(bt.ParticipantDetails))
	for _, p := range bt.ParticipantDetails {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		ve.Props.SetText(ical.PropDescription, "Available: "+strings.Join(names, ", "))
	}
	return ve
}

// Filename returns the attachment name for an event's export.
func Filename(evt *event.Event) string {
	name := slug.Make(evt.Name)
	if name == "" {
		name = "event"
	}
	return name + "-best-times.ics"
}
