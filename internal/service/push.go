package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const (
	notificationIcon = "/icon-192.png"
	notificationLink = "/"
)

var notificationVibrate = []int{200, 100, 200}

// PushPayload is one message for one device token, with delivery hints.
type PushPayload struct {
	Token        string
	Title        string
	Body         string
	Icon         string
	Badge        string
	Link         string
	Vibrate      []int
	HighPriority bool
	Data         map[string]string
}

// PushSender delivers a payload and returns the transport message id.
type PushSender interface {
	Send(ctx context.Context, payload PushPayload) (string, error)
}

// NewPushPayload fills in the fixed delivery hints shared by queued and
// immediate sends. Queued sends additionally ask for high priority.
func NewPushPayload(token, title, body string, highPriority bool, now time.Time) PushPayload {
	return PushPayload{
		Token:        token,
		Title:        title,
		Body:         body,
		Icon:         notificationIcon,
		Badge:        notificationIcon,
		Link:         notificationLink,
		Vibrate:      notificationVibrate,
		HighPriority: highPriority,
		Data: map[string]string{
			"click_action": notificationLink,
			"timestamp":    strconv.FormatInt(now.UnixMilli(), 10),
		},
	}
}

type PushService struct {
	client *messaging.Client
	isDev  bool
	// webLink is the absolute https URL web clients open on click. FCM rejects
	// relative links, so it stays empty unless APP_URL is an https URL.
	webLink string
}

// NewPushService connects to Firebase Cloud Messaging. In development without
// a project id, payloads are only logged.
func NewPushService(ctx context.Context, projectID, credentialsFile, appURL string, isDev bool, opts ...option.ClientOption) (*PushService, error) {
	webLink := webpushLink(appURL)
	if appURL != "" && webLink == "" {
		slog.Warn("APP_URL is not an absolute https URL, web push click links disabled", "app_url", appURL)
	}

	if projectID == "" {
		if !isDev {
			return nil, fmt.Errorf("push service not configured (missing FIREBASE_PROJECT_ID)")
		}
		return &PushService{isDev: true, webLink: webLink}, nil
	}

	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	slog.Info("push service initialized", "project_id", projectID, "web_link", webLink)
	return &PushService{client: client, webLink: webLink}, nil
}

func (s *PushService) Send(ctx context.Context, payload PushPayload) (string, error) {
	if s.client == nil {
		if s.isDev {
			id := "dev-" + uuid.New().String()
			slog.Info("push sent (dev mode)", "message_id", id, "title", payload.Title, "body", payload.Body)
			return id, nil
		}
		return "", fmt.Errorf("push service not configured")
	}

	id, err := s.client.Send(ctx, toFCMMessage(payload, s.webLink))
	if err != nil {
		return "", fmt.Errorf("failed to send push: %w", err)
	}
	return id, nil
}

// webpushLink resolves the payload link against appURL. It returns "" unless
// the result is an absolute https URL.
func webpushLink(appURL string) string {
	base, err := url.Parse(strings.TrimSpace(appURL))
	if err != nil || base.Scheme != "https" || base.Host == "" {
		return ""
	}
	return base.ResolveReference(&url.URL{Path: notificationLink}).String()
}

func toFCMMessage(p PushPayload, webLink string) *messaging.Message {
	msg := &messaging.Message{
		Token: p.Token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Icon:               p.Icon,
				Badge:              p.Badge,
				Vibrate:            p.Vibrate,
				RequireInteraction: false,
			},
		},
	}
	if webLink != "" {
		msg.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: webLink}
	}

	if p.HighPriority {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:       "default",
				ClickAction: p.Link,
			},
		}
	}

	return msg
}
