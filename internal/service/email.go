package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/templui/aquabuddy/internal/markdown"
)

// EmailSender is the subset of EmailService used by the caregiver flow.
type EmailSender interface {
	SendCaregiverAlert(ctx context.Context, to, name, message string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appName   string
	markdown  *markdown.Renderer
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appName:   appName,
		markdown:  markdown.NewRenderer(),
	}
}

func (s *EmailService) SendCaregiverAlert(ctx context.Context, to, name, message string) error {
	subject, body := caregiverAlertTemplate(name, message, s.appName)

	html, err := s.markdown.HTML(body)
	if err != nil {
		return fmt.Errorf("failed to render caregiver email: %w", err)
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "caregiver_alert", "to", to, "subject", subject, "html_bytes", len(html))
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
		Html:    html,
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send caregiver email: %w", err)
	}

	slog.Info("email sent", "type", "caregiver_alert", "to", to)
	return nil
}
