package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/templui/aquabuddy/internal/metrics"
	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/repository"
	"github.com/templui/aquabuddy/internal/validation"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDelayMinutes = 60
	defaultDrainBatch   = 100
	defaultCleanupBatch = 500
	defaultRetention    = 7 * 24 * time.Hour
	maxConcurrentSends  = 10
)

var (
	ErrMissingFields = errors.New("missing required fields: token and message")
	ErrInvalidInput  = errors.New("invalid notification request")
)

type ScheduleRequest struct {
	Token   string
	Message string
	Title   string
	// DelayMinutes defaults to 60 when nil.
	DelayMinutes *float64
}

// DrainResult summarizes one drain run.
type DrainResult struct {
	Selected  int
	Succeeded int
	Failed    int
	Failures  map[string]error
}

type NotificationOptions struct {
	DefaultTitle string
	DrainBatch   int
	CleanupBatch int
	Retention    time.Duration
	Now          func() time.Time
}

type NotificationService struct {
	repo         repository.NotificationRepository
	push         PushSender
	now          func() time.Time
	defaultTitle string
	drainBatch   int
	cleanupBatch int
	retention    time.Duration
}

func NewNotificationService(repo repository.NotificationRepository, push PushSender, opts NotificationOptions) *NotificationService {
	s := &NotificationService{
		repo:         repo,
		push:         push,
		now:          opts.Now,
		defaultTitle: opts.DefaultTitle,
		drainBatch:   opts.DrainBatch,
		cleanupBatch: opts.CleanupBatch,
		retention:    opts.Retention,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaultTitle == "" {
		s.defaultTitle = model.DefaultNotificationTitle
	}
	if s.drainBatch <= 0 {
		s.drainBatch = defaultDrainBatch
	}
	if s.cleanupBatch <= 0 {
		s.cleanupBatch = defaultCleanupBatch
	}
	if s.retention <= 0 {
		s.retention = defaultRetention
	}
	return s
}

// Schedule queues a message for delivery delayMinutes from now.
func (s *NotificationService) Schedule(ctx context.Context, req ScheduleRequest) (*model.ScheduledNotification, error) {
	title, err := s.checkRequest(req.Token, req.Message, req.Title)
	if err != nil {
		return nil, err
	}

	delay := float64(DefaultDelayMinutes)
	if req.DelayMinutes != nil {
		delay = *req.DelayMinutes
	}
	if err := validation.ValidateDelay(delay); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	n := &model.ScheduledNotification{
		Token:         req.Token,
		Title:         title,
		Message:       req.Message,
		ScheduledTime: now.UnixMilli() + int64(delay*60000),
		CreatedAt:     now.UnixMilli(),
	}

	err = s.repo.Create(n)
	if err != nil {
		return nil, fmt.Errorf("failed to queue notification: %w", err)
	}

	metrics.NotificationsScheduled.Inc()
	slog.Info("notification scheduled", "id", n.ID, "scheduled_time", n.ScheduledAt())
	return n, nil
}

// SendNow bypasses the queue and returns the transport message id.
func (s *NotificationService) SendNow(ctx context.Context, token, title, message string) (string, error) {
	title, err := s.checkRequest(token, message, title)
	if err != nil {
		return "", err
	}

	id, err := s.push.Send(ctx, NewPushPayload(token, title, message, false, s.now()))
	if err != nil {
		metrics.NotificationsDelivered.WithLabelValues("direct", "failure").Inc()
		return "", err
	}

	metrics.NotificationsDelivered.WithLabelValues("direct", "success").Inc()
	slog.Info("notification sent", "message_id", id)
	return id, nil
}

// DrainDue sends every due entry (up to the batch size) and marks all of them
// sent in one transaction, whatever the individual send outcome.
func (s *NotificationService) DrainDue(ctx context.Context) (*DrainResult, error) {
	now := s.now()

	due, err := s.repo.Due(now, s.drainBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to load due notifications: %w", err)
	}

	result := &DrainResult{Selected: len(due), Failures: map[string]error{}}
	if len(due) == 0 {
		slog.Debug("no due notifications")
		return result, nil
	}

	// Sends run to completion even when ctx is cancelled mid-drain; every
	// selected entry is marked sent below.
	sendCtx := context.WithoutCancel(ctx)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)

	for _, n := range due {
		g.Go(func() error {
			payload := NewPushPayload(n.Token, n.Title, n.Message, true, now)
			_, sendErr := s.push.Send(sendCtx, payload)

			mu.Lock()
			defer mu.Unlock()
			if sendErr != nil {
				result.Failed++
				result.Failures[n.ID] = sendErr
				slog.Warn("failed to deliver notification", "id", n.ID, "error", sendErr)
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	metrics.NotificationsDelivered.WithLabelValues("queue", "success").Add(float64(result.Succeeded))
	metrics.NotificationsDelivered.WithLabelValues("queue", "failure").Add(float64(result.Failed))

	ids := make([]string, len(due))
	for i, n := range due {
		ids[i] = n.ID
	}

	err = s.repo.MarkSent(ids, now)
	if err != nil {
		return result, fmt.Errorf("failed to mark notifications sent: %w", err)
	}

	slog.Info("processed scheduled notifications",
		"selected", result.Selected, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// CleanupSent deletes sent entries older than the retention window.
func (s *NotificationService) CleanupSent(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)

	deleted, err := s.repo.DeleteSentBefore(cutoff, s.cleanupBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", err)
	}

	metrics.NotificationsCleaned.Add(float64(deleted))
	if deleted > 0 {
		slog.Info("cleaned up old notifications", "deleted", deleted)
	}
	return deleted, nil
}

func (s *NotificationService) checkRequest(token, message, title string) (string, error) {
	err := validation.ValidatePushTarget(token, message)
	if errors.Is(err, validation.ErrTokenRequired) || errors.Is(err, validation.ErrMessageRequired) {
		return "", ErrMissingFields
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return s.defaultTitle, nil
	}
	if err := validation.ValidateTitle(title); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return title, nil
}
