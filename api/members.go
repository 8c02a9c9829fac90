package api

import (
	"net/http"

	"meetwhen/member"
	"meetwhen/user"

	"github.com/google/uuid"
)

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := uuid.MustParse(req.UserID)

	if !a.eventAndUserExist(w, r, eventID, userID) {
		return
	}

	m, err := member.NewAccessor(a.db).AddMember(r.Context(), eventID, userID, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, m)
}

type getMembersResponse struct {
	Members []member.EventMember `json:"members"`
}

func (a *API) getMembers(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := member.NewAccessor(a.db).ListByEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getMembersResponse{Members: members})
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := a.pathID(w, r, "user_id")
	if !ok {
		return
	}

	removed, err := member.NewAccessor(a.db).RemoveMember(r.Context(), eventID, userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if !removed {
		a.Response(w, http.StatusNotFound, "member not found")
		return
	}
	a.Response(w, http.StatusOK, "member removed")
}

// eventAndUserExist writes a 404 and returns false when either record is missing.
func (a *API) eventAndUserExist(w http.ResponseWriter, r *http.Request, eventID, userID uuid.UUID) bool {
	evt, err := a.eventAccessor().GetEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return false
	}
	if evt == nil {
		a.Response(w, http.StatusNotFound, "event not found")
		return false
	}

	u, err := user.NewAccessor(a.db).GetUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return false
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return false
	}
	return true
}
