// Package client talks to the Aqua Buddy notification API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/templui/aquabuddy/internal/reminder"
)

var ErrNoPushToken = errors.New("no push token configured (set AQUA_PUSH_TOKEN)")

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type ScheduleResult struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	ScheduledTime time.Time `json:"scheduledTime"`
}

type scheduleBody struct {
	Token        string   `json:"token"`
	Message      string   `json:"message"`
	Title        string   `json:"title,omitempty"`
	DelayMinutes *float64 `json:"delayMinutes,omitempty"`
}

type sendBody struct {
	Token   string `json:"token"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

type sendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// Schedule queues a push for this device delayMinutes from now.
func (c *Client) Schedule(ctx context.Context, title, message string, delayMinutes float64) (*ScheduleResult, error) {
	if c.token == "" {
		return nil, ErrNoPushToken
	}

	var out ScheduleResult
	err := c.post(ctx, "/scheduleNotification", scheduleBody{
		Token:        c.token,
		Message:      message,
		Title:        title,
		DelayMinutes: &delayMinutes,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Send pushes a message to this device immediately and returns its id.
func (c *Client) Send(ctx context.Context, title, message string) (string, error) {
	if c.token == "" {
		return "", ErrNoPushToken
	}

	var out sendResult
	err := c.post(ctx, "/sendNotification", sendBody{Token: c.token, Title: title, Message: message}, &out)
	if err != nil {
		return "", err
	}
	return out.MessageID, nil
}

// Permission is granted once a push token is configured.
func (c *Client) Permission() reminder.Permission {
	if c.token == "" {
		return reminder.PermissionDenied
	}
	return reminder.PermissionGranted
}

func (c *Client) RequestPermission(ctx context.Context) (reminder.Permission, error) {
	return c.Permission(), nil
}

// Show delivers a reminder through the server's push transport.
func (c *Client) Show(ctx context.Context, title string, opts reminder.NotificationOptions) error {
	_, err := c.Send(ctx, title, opts.Body)
	return err
}

// Contact asks the server to email a caregiver.
func (c *Client) Contact(ctx context.Context, email, name, message string) error {
	body := map[string]string{"email": email, "name": name, "message": message}
	return c.post(ctx, "/contactCaregiver", body, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil {
		return nil
	}
	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-200 answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// errorMessage extracts the error text from either a JSON or plain body.
func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
		return resp.Error
	}
	return strings.TrimSpace(string(body))
}
