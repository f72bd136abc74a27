package validation

import (
	"errors"
	"net/mail"
	"strings"
)

const (
	maxTitleLength   = 120
	maxMessageLength = 1000
	maxTokenLength   = 4096
	// A week is the furthest a reminder can be queued ahead.
	maxDelayMinutes = 7 * 24 * 60
)

var (
	ErrTokenRequired   = errors.New("token is required")
	ErrMessageRequired = errors.New("message is required")
)

// ValidatePushTarget checks the two required submission fields.
// Both missing-field errors are reported as client errors by the handlers.
func ValidatePushTarget(token, message string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenRequired
	}
	if strings.TrimSpace(message) == "" {
		return ErrMessageRequired
	}
	if len(token) > maxTokenLength {
		return errors.New("token is too long")
	}
	if len(message) > maxMessageLength {
		return errors.New("message is too long (max 1000 characters)")
	}
	return nil
}

func ValidateTitle(title string) error {
	if len(title) > maxTitleLength {
		return errors.New("title is too long (max 120 characters)")
	}
	return nil
}

func ValidateDelay(minutes float64) error {
	if minutes < 0 {
		return errors.New("delayMinutes must not be negative")
	}
	if minutes > maxDelayMinutes {
		return errors.New("delayMinutes is too large (max 7 days)")
	}
	return nil
}

// ValidateEmail validates a caregiver address with net/mail (RFC 5322).
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}
	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}
	return nil
}
