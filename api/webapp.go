package api

import (
	"net/http"
	"strings"

	"meetwhen/availability"
	"meetwhen/schedule"
	"meetwhen/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The Telegram mini-app sends the literal string "undefined" when it has no user id.
const undefinedTelegramID = "undefined"

type hoursAvailable struct {
	DateTimes []schedule.RawSlot `json:"dateTimes" validate:"required"`
}

type webappSubmitRequest struct {
	WebAppNumber   int            `json:"web_app_number"`
	EventName      string         `json:"event_name"`
	EventID        string         `json:"event_id" validate:"required,uuid"`
	HoursAvailable hoursAvailable `json:"hours_available"`
	UserID         string         `json:"user_id" validate:"omitempty,uuid"`
	UserName       string         `json:"user_name" validate:"max=255"`
	TelegramUserID string         `json:"telegram_user_id" validate:"max=64"`
}

type webappSubmitResponse struct {
	Success  bool      `json:"success"`
	EventID  string    `json:"event_id"`
	User     user.User `json:"user"`
	Message  string    `json:"message"`
	Warnings []string  `json:"warnings,omitempty"`
}

// webappSubmit stores availability sent by the mini-app, converting its DD/MM/YYYY and HHMM
// slots to the canonical encoding and creating the user on first submission.
func (a *API) webappSubmit(w http.ResponseWriter, r *http.Request) {
	var req webappSubmitRequest
	if err := a.decode(r, &req); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	slots, warnings := schedule.NormalizeSlots(req.HoursAvailable.DateTimes)
	messages := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		a.logger.Warn("slot normalization", zap.String("event_id", req.EventID), zap.Error(warning))
		messages = append(messages, warning.Error())
	}
	if a.cfg.Schedule.StrictSlots && len(warnings) > 0 {
		a.metrics.ObserveRejectedSubmission("webapp", len(warnings))
		a.Response(w, http.StatusBadRequest, strings.Join(messages, "; "))
		return
	}

	eventID := uuid.MustParse(req.EventID)
	evt, err := a.eventAccessor().GetEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if evt == nil {
		a.Response(w, http.StatusNotFound, "event not found")
		return
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		id := uuid.MustParse(req.UserID)
		userID = &id
	}
	telegramUserID := strings.TrimSpace(req.TelegramUserID)
	if telegramUserID == undefinedTelegramID {
		telegramUserID = ""
	}

	u, err := user.NewAccessor(a.db).ResolveUser(r.Context(), userID, telegramUserID, strings.TrimSpace(req.UserName), a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		if userID != nil {
			a.Response(w, http.StatusNotFound, "user not found")
			return
		}
		a.Response(w, http.StatusBadRequest, "user_id is required or valid user_name/telegram_user_id must be provided to create user")
		return
	}

	if _, err := availability.NewAccessor(a.db).Upsert(r.Context(), eventID, u.ID, slots, a.now()); err != nil {
		a.Error(w, r, err)
		return
	}
	a.metrics.ObserveSubmission("webapp", len(warnings))

	a.Response(w, http.StatusOK, webappSubmitResponse{
		Success:  true,
		EventID:  eventID.String(),
		User:     *u,
		Message:  "Availability saved successfully",
		Warnings: messages,
	})
}
