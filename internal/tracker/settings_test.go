package tracker_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestAdjustDailyGoal(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)

	goal, err := tr.AdjustDailyGoal(1)
	require.NoError(t, err)
	assert.Equal(t, 9, goal)

	require.NoError(t, tr.SetDailyGoal(model.MaxDailyGoal))
	goal, err = tr.AdjustDailyGoal(1)
	assert.ErrorIs(t, err, tracker.ErrGoalOutOfRange)
	assert.Equal(t, model.MaxDailyGoal, goal)

	require.NoError(t, tr.SetDailyGoal(model.MinDailyGoal))
	_, err = tr.AdjustDailyGoal(-1)
	assert.ErrorIs(t, err, tracker.ErrGoalOutOfRange)
	assert.Equal(t, model.MinDailyGoal, tr.Settings().DailyGoal)
}

func TestSettingsValidation(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := state.NewMemoryStore()
	tr := newTracker(t, store, c)

	assert.ErrorIs(t, tr.SetBaseReminderFrequency(0), tracker.ErrInvalidFrequency)
	assert.ErrorIs(t, tr.SetFontSize("huge"), tracker.ErrInvalidFontSize)

	require.NoError(t, tr.SetFontSize(model.FontSizeLarge))
	require.NoError(t, tr.SetHighContrast(true))

	stored, err := state.LoadSettings(store)
	require.NoError(t, err)
	assert.Equal(t, model.FontSizeLarge, stored.FontSize)
	assert.True(t, stored.HighContrast)
}

func TestSettingsNotifyOnlyForReminderChanges(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)

	calls := 0
	tr.OnProgressChange(func() { calls++ })

	require.NoError(t, tr.SetFontSize(model.FontSizeSmall))
	require.NoError(t, tr.SetHighContrast(true))
	assert.Zero(t, calls)

	require.NoError(t, tr.SetDailyGoal(10))
	require.NoError(t, tr.SetBaseReminderFrequency(30))
	assert.Equal(t, 2, calls)
}
