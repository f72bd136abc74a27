package tracker

import (
	"log/slog"

	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/state"
)

func (t *Tracker) Settings() model.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// AdjustDailyGoal moves the goal by delta and returns the new goal.
func (t *Tracker) AdjustDailyGoal(delta int) (int, error) {
	current := t.Settings().DailyGoal
	goal := current + delta
	if err := t.SetDailyGoal(goal); err != nil {
		return current, err
	}
	return goal, nil
}

func (t *Tracker) SetDailyGoal(goal int) error {
	if goal < model.MinDailyGoal || goal > model.MaxDailyGoal {
		return ErrGoalOutOfRange
	}
	err := t.updateSettings(func(s *model.Settings) { s.DailyGoal = goal })
	if err != nil {
		return err
	}
	t.notify()
	return nil
}

func (t *Tracker) SetBaseReminderFrequency(minutes float64) error {
	if minutes <= 0 {
		return ErrInvalidFrequency
	}
	err := t.updateSettings(func(s *model.Settings) { s.BaseReminderFrequency = minutes })
	if err != nil {
		return err
	}
	t.notify()
	return nil
}

func (t *Tracker) SetFontSize(size string) error {
	if !model.ValidFontSize(size) {
		return ErrInvalidFontSize
	}
	return t.updateSettings(func(s *model.Settings) { s.FontSize = size })
}

func (t *Tracker) SetHighContrast(on bool) error {
	return t.updateSettings(func(s *model.Settings) { s.HighContrast = on })
}

func (t *Tracker) updateSettings(fn func(s *model.Settings)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.settings
	fn(&next)

	err := state.SaveSettings(t.store, next)
	if err != nil {
		slog.Error("failed to save settings", "error", err)
		return err
	}
	t.settings = next
	return nil
}
