package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	NotificationTitle = "Aqua Buddy 💧"
	NotificationTag   = "aqua-buddy-reminder"
	notificationIcon  = "/icon-192.png"

	bannerDuration      = 5 * time.Second
	systemAutoClose     = 15 * time.Second
	systemNotifyTimeout = 30 * time.Second
	historyDisplayLimit = 10
)

var (
	almostTherePool = []string{
		"You're almost there! Just a little more! 💙",
		"So close to your goal! Keep it up! 🌟",
		"One more glass to go! You've got this! 💧",
	}
	halfwayPool = []string{
		"You're halfway there! Great progress! 🎉",
		"Keep going! Your body will thank you! 💧",
		"Doing great! Time for another glass! 💙",
	}
	startPool = []string{
		"Time to hydrate! Let's drink some water! 💧",
		"Your friend Aqua Buddy is waiting for you! 💙",
		"Remember to drink water! Stay healthy! 🌟",
		"It's water time! Let's do this together! 💧",
	}
)

// MessagePool returns the reminder messages for a progress ratio, banded the
// same way as DelayFor.
func MessagePool(ratio float64) []string {
	switch {
	case ratio >= 0.8:
		return almostTherePool
	case ratio >= 0.5:
		return halfwayPool
	default:
		return startPool
	}
}

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// NotificationOptions mirrors what a system notification can carry.
type NotificationOptions struct {
	Body      string
	Icon      string
	Badge     string
	Tag       string
	Vibrate   []int
	AutoClose time.Duration
	Data      map[string]any
}

// SystemNotifier is an OS or push level notification capability.
type SystemNotifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, title string, opts NotificationOptions) error
}

// Banner is the in-app popup.
type Banner interface {
	Show(message string)
	Dismiss()
}

type HistoryEntry struct {
	Time    time.Time
	Message string
}

type DispatcherOption func(*Dispatcher)

func WithNotifier(n SystemNotifier) DispatcherOption {
	return func(d *Dispatcher) { d.notifier = n }
}

func WithBanner(b Banner, visible func() bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.banner = b
		d.visible = visible
	}
}

func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

func WithDispatcherRand(intn func(n int) int) DispatcherOption {
	return func(d *Dispatcher) { d.intn = intn }
}

func WithDispatcherTimerFactory(f TimerFactory) DispatcherOption {
	return func(d *Dispatcher) { d.afterFunc = f }
}

// Dispatcher turns a scheduler firing into a system notification and/or an
// in-app banner. The two are independent; neither blocks the other.
type Dispatcher struct {
	source    ProgressSource
	notifier  SystemNotifier
	banner    Banner
	visible   func() bool
	now       func() time.Time
	intn      func(n int) int
	afterFunc TimerFactory

	mu           sync.Mutex
	history      []HistoryEntry
	requested    bool
	bannerTimer  Timer
	bannerSerial uint64

	inflight sync.WaitGroup
}

func NewDispatcher(source ProgressSource, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		source:    source,
		now:       time.Now,
		intn:      rand.IntN,
		afterFunc: realTimer,
		visible:   func() bool { return false },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch picks a message for the current progress, records it and shows
// it. It returns the message.
func (d *Dispatcher) Dispatch() string {
	glasses, goal, _ := d.source.ReminderInputs()
	pool := MessagePool(progressRatio(glasses, goal))
	message := pool[d.intn(len(pool))]

	d.mu.Lock()
	d.history = append(d.history, HistoryEntry{Time: d.now(), Message: message})
	d.mu.Unlock()

	if d.notifier != nil {
		d.inflight.Add(1)
		go func() {
			defer d.inflight.Done()
			d.showSystem(message, glasses, goal)
		}()
	}

	if d.banner != nil && d.visible() {
		d.showBanner(message)
	}

	return message
}

// Wait blocks until in-flight system notifications have returned.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// History returns every reminder of this session, oldest first.
func (d *Dispatcher) History() []HistoryEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]HistoryEntry(nil), d.history...)
}

// Recent returns up to the last ten reminders, newest first.
func (d *Dispatcher) Recent() []HistoryEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := max(0, len(d.history)-historyDisplayLimit)
	out := make([]HistoryEntry, 0, len(d.history)-start)
	for i := len(d.history) - 1; i >= start; i-- {
		out = append(out, d.history[i])
	}
	return out
}

func (d *Dispatcher) showSystem(message string, glasses, goal int) {
	ctx, cancel := context.WithTimeout(context.Background(), systemNotifyTimeout)
	defer cancel()

	permission := d.notifier.Permission()
	if permission == PermissionDefault && d.markRequested() {
		var err error
		permission, err = d.notifier.RequestPermission(ctx)
		if err != nil {
			slog.Warn("failed to request notification permission", "error", err)
			return
		}
	}
	if permission != PermissionGranted {
		return
	}

	err := d.notifier.Show(ctx, NotificationTitle, SystemOptions(message, glasses, goal, d.now()))
	if err != nil {
		slog.Error("failed to show system notification", "error", err)
	}
}

// markRequested reports whether this is the first permission request.
func (d *Dispatcher) markRequested() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.requested {
		return false
	}
	d.requested = true
	return true
}

func (d *Dispatcher) showBanner(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bannerTimer != nil {
		d.bannerTimer.Stop()
	}
	d.banner.Show(message)

	d.bannerSerial++
	serial := d.bannerSerial
	d.bannerTimer = d.afterFunc(bannerDuration, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if serial != d.bannerSerial {
			return
		}
		d.bannerTimer = nil
		d.banner.Dismiss()
	})
}

// SystemOptions builds the notification body with today's progress appended.
func SystemOptions(message string, glasses, goal int, now time.Time) NotificationOptions {
	left := max(0, goal-glasses)

	body := message
	if left > 0 {
		body += fmt.Sprintf("\n%d/%d glasses today - %d to go!", glasses, goal, left)
	} else {
		body += "\n🎉 Goal completed! Great job!"
	}

	return NotificationOptions{
		Body:      body,
		Icon:      notificationIcon,
		Badge:     notificationIcon,
		Tag:       NotificationTag,
		Vibrate:   []int{200, 100, 200},
		AutoClose: systemAutoClose,
		Data: map[string]any{
			"dateTime":    now.UnixMilli(),
			"progress":    progressRatio(glasses, goal),
			"glassesLeft": left,
		},
	}
}
