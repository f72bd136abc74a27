// Package reminder arms a single adaptive reminder timer and turns each
// firing into a notification.
package reminder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ProgressSource reports the inputs of the delay calculation.
type ProgressSource interface {
	ReminderInputs() (glasses, goal int, baseMinutes float64)
}

// Timer is the handle returned by a TimerFactory.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f after d, like time.AfterFunc.
type TimerFactory func(d time.Duration, f func()) Timer

func realTimer(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DelayFor picks the next reminder delay in minutes: base*3 at 80% of the
// goal or more, base*1.5 from 50%, base otherwise.
func DelayFor(glasses, goal int, baseMinutes float64) float64 {
	r := progressRatio(glasses, goal)
	switch {
	case r >= 0.8:
		return baseMinutes * 3
	case r >= 0.5:
		return baseMinutes * 1.5
	default:
		return baseMinutes
	}
}

func progressRatio(glasses, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(glasses) / float64(goal)
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

type SchedulerOption func(*Scheduler)

func WithTimerFactory(f TimerFactory) SchedulerOption {
	return func(s *Scheduler) { s.afterFunc = f }
}

func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// Scheduler is a two-state machine: idle, or armed with one pending timer.
// Rearm always cancels before arming, under one lock, so at most one timer
// is ever outstanding.
type Scheduler struct {
	mu        sync.Mutex
	source    ProgressSource
	onFire    func()
	afterFunc TimerFactory
	now       func() time.Time

	timer   Timer
	dueAt   time.Time
	gen     uint64
	stopped bool
}

// NewScheduler returns an idle scheduler. onFire runs on every firing,
// before the scheduler re-arms.
func NewScheduler(source ProgressSource, onFire func(), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		source:    source,
		onFire:    onFire,
		afterFunc: realTimer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rearm cancels any pending timer and arms a new one from current progress.
func (s *Scheduler) Rearm() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	s.cancelLocked()

	// read under the lock so a slower caller can't arm from older progress
	glasses, goal, base := s.source.ReminderInputs()
	delay := minutes(DelayFor(glasses, goal, base))

	if delay <= 0 {
		slog.Warn("reminders disabled, base frequency must be positive", "base_minutes", base)
		return 0
	}

	s.gen++
	gen := s.gen
	s.dueAt = s.now().Add(delay)
	s.timer = s.afterFunc(delay, func() { s.fire(gen) })

	slog.Debug("reminder armed", "delay", delay, "due_at", s.dueAt)
	return delay
}

// Cancel returns the scheduler to idle.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Stop cancels and refuses further arming.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

// Next returns the due time of the pending reminder, if armed.
func (s *Scheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dueAt, s.timer != nil
}

// Armed reports whether a timer is outstanding.
func (s *Scheduler) Armed() bool {
	_, ok := s.Next()
	return ok
}

// NextText renders the time until the next reminder.
func (s *Scheduler) NextText() string {
	due, ok := s.Next()
	if !ok {
		return NextReminderText(0, false)
	}
	return NextReminderText(due.Sub(s.now()), true)
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.dueAt = time.Time{}
	// a callback already in flight sees a stale generation and does nothing
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.dueAt = time.Time{}
	s.mu.Unlock()

	if s.onFire != nil {
		s.onFire()
	}
	s.Rearm()
}

// NextReminderText formats the remaining time until the next reminder.
func NextReminderText(remaining time.Duration, armed bool) string {
	if !armed {
		return "Reminders active"
	}
	mins := int(remaining / time.Minute)
	if mins > 60 {
		return fmt.Sprintf("Next reminder in %dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("Next reminder in %d minutes", mins)
}
