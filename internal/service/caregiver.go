package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/repository"
	"github.com/templui/aquabuddy/internal/validation"
)

var ErrInvalidCaregiver = errors.New("invalid caregiver contact")

const maxCaregiverMessage = 1000

type CaregiverService struct {
	repo  repository.CaregiverRepository
	email EmailSender
}

func NewCaregiverService(repo repository.CaregiverRepository, email EmailSender) *CaregiverService {
	return &CaregiverService{
		repo:  repo,
		email: email,
	}
}

// Contact records the request and emails the caregiver.
// The record is kept even if the email fails.
func (s *CaregiverService) Contact(ctx context.Context, email, name, message string) (*model.CaregiverContact, error) {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCaregiver, err)
	}
	if len(message) > maxCaregiverMessage {
		return nil, fmt.Errorf("%w: message is too long", ErrInvalidCaregiver)
	}

	contact := &model.CaregiverContact{
		Email:   email,
		Name:    strings.TrimSpace(name),
		Message: strings.TrimSpace(message),
	}

	err := s.repo.Create(contact)
	if err != nil {
		return nil, fmt.Errorf("failed to save caregiver contact: %w", err)
	}

	err = s.email.SendCaregiverAlert(ctx, contact.Email, contact.Name, contact.Message)
	if err != nil {
		slog.Error("failed to email caregiver", "error", err, "contact_id", contact.ID)
		return contact, err
	}

	return contact, nil
}
