package api

import (
	"net/http"

	"meetwhen/availability"
	"meetwhen/event"
	"meetwhen/user"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (a *API) eventAccessor() *event.Accessor {
	return event.NewAccessor(a.db, availability.NewAccessor(a.db), event.WithMaxDays(a.cfg.Schedule.MaxEventDays))
}

type createEventRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	CreatorID   string `json:"creator_id" validate:"required,uuid"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	payload := event.Event{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   uuid.MustParse(req.CreatorID),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
	}
	if payload.Timezone == "" {
		payload.Timezone = event.DefaultTimezone
	}
	if err := payload.ValidateWithin(a.cfg.Schedule.MaxEventDays); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	creator, err := user.NewAccessor(a.db).GetUser(r.Context(), payload.CreatorID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if creator == nil {
		a.Response(w, http.StatusNotFound, "creator not found")
		return
	}

	evt, err := a.eventAccessor().CreateEvent(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, evt)
}

type getEventsResponse struct {
	Events []event.Event `json:"events"`
}

func (a *API) getEvents(w http.ResponseWriter, r *http.Request) {
	creatorID, err := uuid.Parse(r.URL.Query().Get("creator_id"))
	if err != nil {
		a.Response(w, http.StatusBadRequest, "valid creator_id is required")
		return
	}

	events, err := a.eventAccessor().GetEventsByCreator(r.Context(), creatorID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getEventsResponse{Events: events})
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	evt, err := a.eventAccessor().GetEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if evt == nil {
		a.Response(w, http.StatusNotFound, "event not found")
		return
	}
	a.Response(w, http.StatusOK, evt)
}

func (a *API) getEventByShareCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	evt, err := a.eventAccessor().GetEventByShareCode(r.Context(), code)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if evt == nil {
		a.Response(w, http.StatusNotFound, "event not found")
		return
	}
	a.Response(w, http.StatusOK, evt)
}

type updateEventRequest struct {
	CreatorID   string  `json:"creator_id" validate:"required,uuid"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Timezone    *string `json:"timezone" validate:"omitempty,timezone"`
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateEventRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := event.Update{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
	}
	updated, err := a.eventAccessor().UpdateEvent(r.Context(), eventID, uuid.MustParse(req.CreatorID), upd)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, updated)
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	creatorID, err := uuid.Parse(r.URL.Query().Get("creator_id"))
	if err != nil {
		a.Response(w, http.StatusBadRequest, "valid creator_id is required")
		return
	}

	if err := a.eventAccessor().DeleteEvent(r.Context(), eventID, creatorID); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, "event deleted")
}
