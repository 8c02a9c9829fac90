package api

import (
	"net/http"

	"meetwhen/availability"
	"meetwhen/member"
	"meetwhen/user"
)

type createUserRequest struct {
	Name           string  `json:"name" validate:"required,max=255"`
	TelegramUserID *string `json:"telegram_user_id" validate:"omitempty,min=1,max=64"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	payload := user.User{Name: req.Name, TelegramUserID: req.TelegramUserID}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	userAccessor := user.NewAccessor(a.db)
	created, err := userAccessor.CreateUser(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

// findUser looks a user up by telegram_user_id.
func (a *API) findUser(w http.ResponseWriter, r *http.Request) {
	telegramUserID := r.URL.Query().Get("telegram_user_id")
	if telegramUserID == "" {
		a.Response(w, http.StatusBadRequest, "telegram_user_id is required")
		return
	}

	userAccessor := user.NewAccessor(a.db)
	u, err := userAccessor.GetUserByTelegramID(r.Context(), telegramUserID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}
	a.Response(w, http.StatusOK, u)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	userAccessor := user.NewAccessor(a.db)
	u, err := userAccessor.GetUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}
	a.Response(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Name           string  `json:"name" validate:"omitempty,max=255"`
	TelegramUserID *string `json:"telegram_user_id" validate:"omitempty,min=1,max=64"`
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" && req.TelegramUserID == nil {
		a.Response(w, http.StatusBadRequest, "nothing to update")
		return
	}

	userAccessor := user.NewAccessor(a.db)
	updated, err := userAccessor.UpdateUser(r.Context(), userID, req.Name, req.TelegramUserID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if updated == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}
	a.Response(w, http.StatusOK, updated)
}

type getUserEventsResponse struct {
	Events []member.UserEvent `json:"events"`
}

func (a *API) getUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	memberAccessor := member.NewAccessor(a.db)
	events, err := memberAccessor.ListByUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getUserEventsResponse{Events: events})
}

type getUserAvailabilityResponse struct {
	Availability []availability.Availability `json:"availability"`
}

func (a *API) getUserAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.pathID(w, r, "id")
	if !ok {
		return
	}

	availabilityAccessor := availability.NewAccessor(a.db)
	items, err := availabilityAccessor.ListByUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getUserAvailabilityResponse{Availability: items})
}
