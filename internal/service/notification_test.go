package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/aquabuddy/internal/db/dbtest"
	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/repository"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakePush struct {
	mu       sync.Mutex
	sent     []PushPayload
	failFor  map[string]bool // by message
	failWith error
}

func (f *fakePush) Send(ctx context.Context, p PushPayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	if f.failFor[p.Body] {
		return "", errors.New("transport unavailable")
	}
	if f.failWith != nil {
		return "", f.failWith
	}
	return "msg-" + p.Token, nil
}

func newTestService(t *testing.T, push PushSender) (*NotificationService, repository.NotificationRepository) {
	t.Helper()
	repo := repository.NewNotificationRepository(dbtest.New(t))
	svc := NewNotificationService(repo, push, NotificationOptions{
		Now: func() time.Time { return testNow },
	})
	return svc, repo
}

func ptr[T any](v T) *T { return &v }

func TestScheduleComputesScheduledTime(t *testing.T) {
	svc, repo := newTestService(t, &fakePush{})

	tests := []struct {
		name  string
		delay *float64
		want  time.Time
	}{
		{"default delay", nil, testNow.Add(60 * time.Minute)},
		{"explicit delay", ptr(15.0), testNow.Add(15 * time.Minute)},
		{"zero delay", ptr(0.0), testNow},
		{"fractional delay", ptr(0.5), testNow.Add(30 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := svc.Schedule(context.Background(), ScheduleRequest{
				Token:        "tok",
				Message:      "drink",
				DelayMinutes: tt.delay,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want.UnixMilli(), n.ScheduledTime)
			assert.Equal(t, model.DefaultNotificationTitle, n.Title)

			stored, err := repo.ByID(n.ID)
			require.NoError(t, err)
			assert.False(t, stored.Sent)
			assert.Equal(t, testNow.UnixMilli(), stored.CreatedAt)
		})
	}
}

func TestScheduleValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakePush{})
	ctx := context.Background()

	_, err := svc.Schedule(ctx, ScheduleRequest{Message: "drink"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Schedule(ctx, ScheduleRequest{Token: "tok", Message: "   "})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Schedule(ctx, ScheduleRequest{Token: "tok", Message: "drink", DelayMinutes: ptr(-5.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	n, err := svc.Schedule(ctx, ScheduleRequest{Token: "tok", Message: "drink", Title: "Custom"})
	require.NoError(t, err)
	assert.Equal(t, "Custom", n.Title)
}

func TestSendNow(t *testing.T) {
	push := &fakePush{}
	svc, _ := newTestService(t, push)

	id, err := svc.SendNow(context.Background(), "tok", "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg-tok", id)
	require.Len(t, push.sent, 1)
	assert.Equal(t, model.DefaultNotificationTitle, push.sent[0].Title)
	assert.False(t, push.sent[0].HighPriority)

	_, err = svc.SendNow(context.Background(), "", "", "hello")
	assert.ErrorIs(t, err, ErrMissingFields)

	push.failWith = errors.New("boom")
	_, err = svc.SendNow(context.Background(), "tok", "", "hello")
	assert.Error(t, err)
}

func TestDrainDueMarksEverySelectedEntry(t *testing.T) {
	push := &fakePush{failFor: map[string]bool{"second": true}}
	svc, repo := newTestService(t, push)

	var due []*model.ScheduledNotification
	for _, msg := range []string{"first", "second", "third"} {
		n := &model.ScheduledNotification{
			Token: "tok-" + msg, Title: "T", Message: msg,
			ScheduledTime: testNow.Add(-time.Minute).UnixMilli(),
		}
		require.NoError(t, repo.Create(n))
		due = append(due, n)
	}
	later := &model.ScheduledNotification{
		Token: "tok-later", Title: "T", Message: "later",
		ScheduledTime: testNow.Add(time.Hour).UnixMilli(),
	}
	require.NoError(t, repo.Create(later))

	result, err := svc.DrainDue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Selected)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures, due[1].ID)
	assert.Len(t, push.sent, 3)

	for _, n := range due {
		stored, err := repo.ByID(n.ID)
		require.NoError(t, err)
		assert.True(t, stored.Sent, n.Message)
		require.NotNil(t, stored.SentAt)
		assert.Equal(t, testNow.UnixMilli(), *stored.SentAt)
	}

	stored, err := repo.ByID(later.ID)
	require.NoError(t, err)
	assert.False(t, stored.Sent)

	// Nothing left to send on the next run.
	result, err = svc.DrainDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Selected)
	assert.Len(t, push.sent, 3)
}

func TestDrainDuePayloadHints(t *testing.T) {
	push := &fakePush{}
	svc, repo := newTestService(t, push)

	require.NoError(t, repo.Create(&model.ScheduledNotification{
		Token: "tok", Title: "Hi", Message: "drink", ScheduledTime: testNow.UnixMilli(),
	}))

	_, err := svc.DrainDue(context.Background())
	require.NoError(t, err)

	require.Len(t, push.sent, 1)
	p := push.sent[0]
	assert.Equal(t, "Hi", p.Title)
	assert.Equal(t, "drink", p.Body)
	assert.Equal(t, "/icon-192.png", p.Icon)
	assert.Equal(t, "/icon-192.png", p.Badge)
	assert.Equal(t, []int{200, 100, 200}, p.Vibrate)
	assert.Equal(t, "/", p.Link)
	assert.True(t, p.HighPriority)
	assert.Equal(t, "/", p.Data["click_action"])
}

// ctxPush fails the way a transport does when its request context is done.
type ctxPush struct {
	mu   sync.Mutex
	sent int
}

func (c *ctxPush) Send(ctx context.Context, p PushPayload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent++
	return "msg-" + p.Token, nil
}

func TestDrainDueIgnoresCancellation(t *testing.T) {
	push := &ctxPush{}
	svc, repo := newTestService(t, push)

	for range 3 {
		require.NoError(t, repo.Create(&model.ScheduledNotification{
			Token: "tok", Title: "T", Message: "m", ScheduledTime: testNow.UnixMilli(),
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.DrainDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Selected)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, push.sent)
}

func TestDrainDueRespectsBatchSize(t *testing.T) {
	push := &fakePush{}
	repo := repository.NewNotificationRepository(dbtest.New(t))
	svc := NewNotificationService(repo, push, NotificationOptions{
		DrainBatch: 2,
		Now:        func() time.Time { return testNow },
	})

	for range 5 {
		require.NoError(t, repo.Create(&model.ScheduledNotification{
			Token: "tok", Title: "T", Message: "m", ScheduledTime: testNow.UnixMilli(),
		}))
	}

	result, err := svc.DrainDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Selected)

	remaining, err := repo.Due(testNow, 100)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestCleanupSent(t *testing.T) {
	svc, repo := newTestService(t, &fakePush{})

	create := func(msg string) *model.ScheduledNotification {
		n := &model.ScheduledNotification{
			Token: "tok", Title: "T", Message: msg,
			ScheduledTime: testNow.Add(-10 * 24 * time.Hour).UnixMilli(),
		}
		require.NoError(t, repo.Create(n))
		return n
	}

	old := create("old")
	recent := create("recent")
	unsent := create("unsent")

	require.NoError(t, repo.MarkSent([]string{old.ID}, testNow.Add(-8*24*time.Hour)))
	require.NoError(t, repo.MarkSent([]string{recent.ID}, testNow.Add(-24*time.Hour)))

	deleted, err := svc.CleanupSent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = repo.ByID(old.ID)
	assert.ErrorIs(t, err, repository.ErrNotificationNotFound)
	_, err = repo.ByID(recent.ID)
	assert.NoError(t, err)
	_, err = repo.ByID(unsent.ID)
	assert.NoError(t, err)
}

func TestToFCMMessage(t *testing.T) {
	p := NewPushPayload("tok", "Title", "Body", true, testNow)
	msg := toFCMMessage(p, "https://aqua.example.com/")

	assert.Equal(t, "tok", msg.Token)
	assert.Equal(t, "Title", msg.Notification.Title)
	assert.Equal(t, "Body", msg.Notification.Body)
	assert.Equal(t, "/", msg.Data["click_action"])
	require.NotNil(t, msg.Android)
	assert.Equal(t, "high", msg.Android.Priority)
	assert.Equal(t, "default", msg.Android.Notification.Sound)
	assert.Equal(t, "/", msg.Android.Notification.ClickAction)
	require.NotNil(t, msg.Webpush.FCMOptions)
	assert.Equal(t, "https://aqua.example.com/", msg.Webpush.FCMOptions.Link)
	assert.Equal(t, "/icon-192.png", msg.Webpush.Notification.Icon)

	direct := toFCMMessage(NewPushPayload("tok", "Title", "Body", false, testNow), "")
	assert.Nil(t, direct.Android)
	assert.Nil(t, direct.Webpush.FCMOptions)
}

func TestWebpushLink(t *testing.T) {
	tests := []struct {
		appURL string
		want   string
	}{
		{"https://aqua.example.com", "https://aqua.example.com/"},
		{"https://aqua.example.com/app/", "https://aqua.example.com/"},
		{" https://aqua.example.com ", "https://aqua.example.com/"},
		{"http://aqua.example.com", ""},
		{"/", ""},
		{"aqua.example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.appURL, func(t *testing.T) {
			assert.Equal(t, tt.want, webpushLink(tt.appURL))
		})
	}
}

func TestPushServiceDevMode(t *testing.T) {
	push, err := NewPushService(context.Background(), "", "", "", true)
	require.NoError(t, err)

	id, err := push.Send(context.Background(), NewPushPayload("tok", "T", "B", false, testNow))
	require.NoError(t, err)
	assert.Contains(t, id, "dev-")

	_, err = NewPushService(context.Background(), "", "", "", false)
	assert.Error(t, err)
}
