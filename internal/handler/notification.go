package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/service"
)

// Notifier is the part of service.NotificationService the HTTP API needs.
type Notifier interface {
	Schedule(ctx context.Context, req service.ScheduleRequest) (*model.ScheduledNotification, error)
	SendNow(ctx context.Context, token, title, message string) (string, error)
}

// isoMillis matches the ISO 8601 form web clients parse, e.g. 2024-05-01T08:00:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type NotificationHandler struct {
	notifier Notifier
}

func NewNotificationHandler(notifier Notifier) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
	}
}

type scheduleRequest struct {
	Token        string   `json:"token"`
	Message      string   `json:"message"`
	Title        string   `json:"title"`
	DelayMinutes *float64 `json:"delayMinutes"`
}

type scheduleResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ScheduledTime string `json:"scheduledTime"`
}

type sendRequest struct {
	Token   string `json:"token"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// Schedule handles POST /scheduleNotification.
func (h *NotificationHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	var req scheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	n, err := h.notifier.Schedule(r.Context(), service.ScheduleRequest{
		Token:        req.Token,
		Message:      req.Message,
		Title:        req.Title,
		DelayMinutes: req.DelayMinutes,
	})
	if err != nil {
		h.writeError(w, "failed to schedule notification", err)
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Success:       true,
		Message:       "Notification scheduled successfully",
		ScheduledTime: n.ScheduledAt().Format(isoMillis),
	})
}

// Send handles POST /sendNotification.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	id, err := h.notifier.SendNow(r.Context(), req.Token, req.Title, req.Message)
	if err != nil {
		h.writeError(w, "failed to send notification", err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{Success: true, MessageID: id})
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, logMsg string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		http.Error(w, "Missing required fields: token and message", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(logMsg, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Error: err.Error()})
	}
}
