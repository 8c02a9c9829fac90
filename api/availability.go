package api

import (
	"net/http"

	"meetwhen/availability"
	"meetwhen/schedule"
)

type slotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

type putAvailabilityRequest struct {
	AvailableSlots []slotRequest `json:"available_slots" validate:"dive"`
}

// putAvailability replaces the user's slots for the event. Slots must already be canonical.
func (a *API) putAvailability(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := a.pathID(w, r, "user_id")
	if !ok {
		return
	}

	var req putAvailabilityRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	if !a.eventAndUserExist(w, r, eventID, userID) {
		return
	}

	slots := make([]schedule.Slot, len(req.AvailableSlots))
	for i, s := range req.AvailableSlots {
		slots[i] = schedule.Slot{Date: s.Date, Time: s.Time}
	}

	saved, err := availability.NewAccessor(a.db).Upsert(r.Context(), eventID, userID, slots, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.metrics.ObserveSubmission("api", 0)
	a.Response(w, http.StatusOK, saved)
}

type getEventAvailabilityResponse struct {
	Availability []availability.Participant `json:"availability"`
}

func (a *API) getEventAvailability(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	participants, err := availability.NewAccessor(a.db).ListByEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getEventAvailabilityResponse{Availability: participants})
}

func (a *API) getAvailability(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := a.pathID(w, r, "user_id")
	if !ok {
		return
	}

	av, err := availability.NewAccessor(a.db).Get(r.Context(), eventID, userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if av == nil {
		a.Response(w, http.StatusNotFound, "availability not found")
		return
	}
	a.Response(w, http.StatusOK, av)
}

func (a *API) deleteAvailability(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := a.pathID(w, r, "user_id")
	if !ok {
		return
	}

	deleted, err := availability.NewAccessor(a.db).Delete(r.Context(), eventID, userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if !deleted {
		a.Response(w, http.StatusNotFound, "availability not found")
		return
	}
	a.Response(w, http.StatusOK, "availability deleted")
}
