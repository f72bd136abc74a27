// Package tracker records glasses of water against the daily goal and keeps
// streaks and unlocked rewards in step. Every mutation is persisted before it
// becomes visible; a failed write leaves the in-memory state untouched.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/state"
)

const dateLayout = "2006-01-02"

var (
	ErrGoalAlreadyReached = errors.New("daily goal already reached")
	ErrNothingToUndo      = errors.New("no glasses to undo today")
	ErrNothingToReset     = errors.New("today's count is already zero")
	ErrGoalOutOfRange     = fmt.Errorf("daily goal must be between %d and %d", model.MinDailyGoal, model.MaxDailyGoal)
	ErrInvalidFrequency   = errors.New("reminder frequency must be positive")
	ErrInvalidFontSize    = errors.New("font size must be small, medium or large")
	ErrUnknownAccessory   = errors.New("unknown accessory")
	ErrAccessoryLocked    = errors.New("accessory is not unlocked yet")
)

const (
	MsgAlreadyComplete = "Great job! You've already reached your goal today! 🎉"
	MsgGoalCompleted   = "🎉 You did it! Daily goal completed! You're a hydration superstar! 🌟"
	MsgNothingToUndo   = "No glasses to undo today! 💙"
	MsgUndone          = "Last glass undone. No worries! 💙"
	MsgNothingToReset  = "Today's count is already at zero! 💧"
	MsgReset           = "Today's progress has been reset. Let's start fresh! 💙"
)

var affirmations = []string{
	"Awesome! Stay hydrated! 💧",
	"Great job! Keep it up! 🌟",
	"You're doing amazing! 💙",
	"Way to go! 🎉",
	"Wonderful! Your body thanks you! 💧",
}

// Outcome describes what an action did, for the presentation layer.
type Outcome struct {
	Message       string
	Glasses       int
	GoalCompleted bool
	Unlocked      []Reward
}

type Option func(*Tracker)

// WithClock replaces time.Now. Calendar dates use the returned time's location.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithRand replaces the affirmation picker; it must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(t *Tracker) { t.intn = intn }
}

type Tracker struct {
	mu       sync.Mutex
	store    state.Store
	now      func() time.Time
	intn     func(n int) int
	settings model.Settings
	progress *model.UserProgress

	listenerMu sync.Mutex
	listeners  []func()
}

// New loads settings and progress from store and makes sure today's log
// entry exists.
func New(store state.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: store,
		now:   time.Now,
		intn:  rand.IntN,
	}
	for _, opt := range opts {
		opt(t)
	}

	settings, err := state.LoadSettings(store)
	if err != nil {
		return nil, err
	}
	progress, err := state.LoadProgress(store)
	if err != nil {
		return nil, err
	}
	t.settings = settings
	t.progress = progress

	err = t.mutate(func(p *model.UserProgress) error {
		if _, ok := p.DailyLog[t.todayKey()]; ok {
			return errUnchanged
		}
		t.entry(p)
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}
	return t, nil
}

// OnProgressChange registers fn to run after every change that affects
// reminder timing. fn runs without the tracker lock held.
func (t *Tracker) OnProgressChange(fn func()) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Tracker) notify() {
	t.listenerMu.Lock()
	listeners := append([]func(){}, t.listeners...)
	t.listenerMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// LogGlass records one glass for today.
func (t *Tracker) LogGlass() (Outcome, error) {
	var out Outcome

	err := t.mutate(func(p *model.UserProgress) error {
		today := t.entry(p)
		if today.Glasses >= t.settings.DailyGoal {
			out.Glasses = today.Glasses
			out.Message = MsgAlreadyComplete
			return ErrGoalAlreadyReached
		}

		today.Glasses++
		p.TotalGlasses++
		out.Glasses = today.Glasses

		if today.Glasses >= t.settings.DailyGoal && !today.Completed {
			today.Completed = true
			UpdateStreak(p, t.now())
			out.GoalCompleted = true
			out.Unlocked = EvaluateUnlocks(p)
		}

		out.Message = affirmations[t.intn(len(affirmations))]
		return nil
	})
	if err != nil {
		return out, err
	}

	if out.GoalCompleted {
		slog.Info("daily goal completed", "glasses", out.Glasses, "unlocked", len(out.Unlocked))
	}
	t.notify()
	return out, nil
}

// UndoGlass removes the last glass logged today. Callers confirm with the
// user first. The streak is left as is even when the day drops below goal.
func (t *Tracker) UndoGlass() (Outcome, error) {
	var out Outcome

	err := t.mutate(func(p *model.UserProgress) error {
		today := t.entry(p)
		if today.Glasses == 0 {
			out.Message = MsgNothingToUndo
			return ErrNothingToUndo
		}

		today.Glasses--
		p.TotalGlasses--
		if today.Completed && today.Glasses < t.settings.DailyGoal {
			today.Completed = false
		}

		out.Glasses = today.Glasses
		out.Message = MsgUndone
		return nil
	})
	if err != nil {
		return out, err
	}

	t.notify()
	return out, nil
}

// ResetDay clears today's count.
func (t *Tracker) ResetDay() (Outcome, error) {
	var out Outcome

	err := t.mutate(func(p *model.UserProgress) error {
		today := t.entry(p)
		if today.Glasses == 0 {
			out.Message = MsgNothingToReset
			return ErrNothingToReset
		}

		p.TotalGlasses -= today.Glasses
		today.Glasses = 0
		today.Completed = false

		out.Message = MsgReset
		return nil
	})
	if err != nil {
		return out, err
	}

	t.notify()
	return out, nil
}

// EvaluateUnlocks re-checks every reward against the current progress.
func (t *Tracker) EvaluateUnlocks() ([]Reward, error) {
	var unlocked []Reward
	err := t.mutate(func(p *model.UserProgress) error {
		unlocked = EvaluateUnlocks(p)
		if len(unlocked) == 0 {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil, nil
	}
	return unlocked, err
}

// ToggleAccessory wears id, or takes it off if it is already worn.
func (t *Tracker) ToggleAccessory(id string) (*string, error) {
	if _, ok := FindAccessory(id); !ok {
		return nil, ErrUnknownAccessory
	}

	var current *string
	err := t.mutate(func(p *model.UserProgress) error {
		if !slices.Contains(p.UnlockedAccessories, id) {
			return ErrAccessoryLocked
		}
		if p.CurrentAccessory != nil && *p.CurrentAccessory == id {
			p.CurrentAccessory = nil
		} else {
			p.CurrentAccessory = &id
		}
		current = p.CurrentAccessory
		return nil
	})
	return current, err
}

// UpdateStreak applies a goal completion on now's calendar date.
func UpdateStreak(p *model.UserProgress, now time.Time) {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	switch {
	case p.LastCompletedDate != nil && *p.LastCompletedDate == yesterday:
		p.StreakDays++
	case p.LastCompletedDate == nil || *p.LastCompletedDate != today:
		p.StreakDays = 1
	}
	p.LastCompletedDate = &today
}

// errUnchanged aborts a mutation without writing and without an error.
var errUnchanged = errors.New("unchanged")

// mutate runs fn against a copy of the progress and persists it. The copy
// replaces the live state only after a successful write.
func (t *Tracker) mutate(fn func(p *model.UserProgress) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.progress.Clone()
	err := fn(next)
	if err != nil {
		return err
	}

	err = state.SaveProgress(t.store, next)
	if err != nil {
		slog.Error("failed to save progress", "error", err)
		return err
	}
	t.progress = next
	return nil
}

func (t *Tracker) todayKey() string {
	return t.now().Format(dateLayout)
}

// entry returns today's log entry in p, creating it when missing.
func (t *Tracker) entry(p *model.UserProgress) *model.DailyLogEntry {
	key := t.todayKey()
	e, ok := p.DailyLog[key]
	if !ok {
		e = &model.DailyLogEntry{Timestamp: t.now().UnixMilli()}
		p.DailyLog[key] = e
	}
	return e
}
