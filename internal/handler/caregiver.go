package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/service"
)

type CaregiverContacter interface {
	Contact(ctx context.Context, email, name, message string) (*model.CaregiverContact, error)
}

type CaregiverHandler struct {
	caregiverService CaregiverContacter
}

func NewCaregiverHandler(caregiverService CaregiverContacter) *CaregiverHandler {
	return &CaregiverHandler{
		caregiverService: caregiverService,
	}
}

type contactRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Contact handles POST /contactCaregiver.
func (h *CaregiverHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	contact, err := h.caregiverService.Contact(r.Context(), req.Email, req.Name, req.Message)
	if errors.Is(err, service.ErrInvalidCaregiver) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("failed to contact caregiver", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Error: "Failed to contact caregiver"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      contact.ID,
	})
}
