package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"meetwhen/calendar"
	"meetwhen/event"
	"meetwhen/schedule"

	"go.uber.org/zap"
)

const noAvailabilityMessage = "No availability data found for this event"

type bestTimesResponse struct {
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	Message   string `json:"message,omitempty"`
	*schedule.Analysis
}

func (a *API) options(r *http.Request) schedule.Options {
	limit := a.cfg.Schedule.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = schedule.ParseLimit(raw)
	}
	return schedule.Options{
		IntervalMinutes: a.cfg.Schedule.IntervalMinutes,
		Limit:           limit,
		MaxDays:         a.cfg.Schedule.MaxEventDays,
	}
}

func (a *API) computeBestTimes(w http.ResponseWriter, r *http.Request) (*event.Event, *schedule.Analysis, bool) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return nil, nil, false
	}

	evt, analysis, err := a.eventAccessor().ComputeBestTimes(r.Context(), eventID, a.options(r))
	if err != nil {
		var shapeErr *schedule.InputShapeError
		if errors.As(err, &shapeErr) {
			a.logger.Warn("stored event has malformed window", zap.Stringer("event_id", eventID), zap.Error(err))
		}
		a.Error(w, r, err)
		return nil, nil, false
	}

	degenerate := false
	for _, warning := range analysis.Warnings {
		var gridWarning *schedule.DegenerateGridWarning
		if errors.As(warning, &gridWarning) {
			degenerate = true
		}
		a.logger.Warn("best times", zap.Stringer("event_id", eventID), zap.Error(warning))
	}
	a.metrics.ObserveBestTimes(analysis.ParticipantCount, degenerate)
	return evt, analysis, true
}

// getBestTimes ranks the event grid by participant overlap. An event nobody has answered yet
// gets an empty list and an explanatory message.
func (a *API) getBestTimes(w http.ResponseWriter, r *http.Request) {
	evt, analysis, ok := a.computeBestTimes(w, r)
	if !ok {
		return
	}

	res := bestTimesResponse{
		EventID:   evt.ID.String(),
		EventName: evt.Name,
		Analysis:  analysis,
	}
	if analysis.ParticipantCount == 0 {
		analysis.BestTimes = []schedule.BestTime{}
		res.Message = noAvailabilityMessage
	}
	a.Response(w, http.StatusOK, res)
}

func (a *API) getBestTimesCalendar(w http.ResponseWriter, r *http.Request) {
	evt, analysis, ok := a.computeBestTimes(w, r)
	if !ok {
		return
	}
	if analysis.ParticipantCount == 0 {
		a.Response(w, http.StatusNotFound, noAvailabilityMessage)
		return
	}

	interval := a.cfg.Schedule.IntervalMinutes
	var buf bytes.Buffer
	if err := calendar.Encode(&buf, evt, analysis.BestTimes, interval, a.now()); err != nil {
		a.Error(w, r, fmt.Errorf("encode calendar for %s: %w", evt.ID, err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.Filename(evt)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
