package tracker_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/aquabuddy/internal/model"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) nextDay(days int) { c.now = c.now.AddDate(0, 0, days) }

func newTracker(t *testing.T, store state.Store, c *clock) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.New(store,
		tracker.WithClock(c.Now),
		tracker.WithRand(func(int) int { return 0 }),
	)
	require.NoError(t, err)
	return tr
}

func setGoal(t *testing.T, tr *tracker.Tracker, goal int) {
	t.Helper()
	require.NoError(t, tr.SetDailyGoal(goal))
}

func completeDay(t *testing.T, tr *tracker.Tracker) {
	t.Helper()
	for tr.GlassesLeft() > 0 {
		_, err := tr.LogGlass()
		require.NoError(t, err)
	}
}

func TestNewCreatesTodayEntry(t *testing.T) {
	store := state.NewMemoryStore()
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)

	p := tr.Progress()
	require.Contains(t, p.DailyLog, "2025-03-10")
	assert.Equal(t, c.now.UnixMilli(), p.DailyLog["2025-03-10"].Timestamp)

	stored, err := state.LoadProgress(store)
	require.NoError(t, err)
	assert.Contains(t, stored.DailyLog, "2025-03-10")
}

func TestLogGlass(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)
	setGoal(t, tr, 4)

	out, err := tr.LogGlass()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Glasses)
	assert.Equal(t, "Awesome! Stay hydrated! 💧", out.Message)
	assert.False(t, out.GoalCompleted)

	for range 2 {
		_, err = tr.LogGlass()
		require.NoError(t, err)
	}
	out, err = tr.LogGlass()
	require.NoError(t, err)
	assert.True(t, out.GoalCompleted)
	assert.Equal(t, 4, out.Glasses)

	var ids []string
	for _, r := range out.Unlocked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"first-day", "star"}, ids)

	status := tr.Status()
	assert.True(t, status.Completed)
	assert.Equal(t, 1, status.StreakDays)
	assert.Equal(t, 100, status.Percent)
	assert.Equal(t, 0, status.GlassesLeft)
}

func TestLogGlassAtGoalIsNoop(t *testing.T) {
	store := state.NewMemoryStore()
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)
	setGoal(t, tr, 4)
	completeDay(t, tr)

	before := tr.Progress()
	rawBefore, err := store.Get(state.ProgressKey)
	require.NoError(t, err)

	calls := 0
	tr.OnProgressChange(func() { calls++ })

	out, err := tr.LogGlass()
	assert.ErrorIs(t, err, tracker.ErrGoalAlreadyReached)
	assert.Equal(t, tracker.MsgAlreadyComplete, out.Message)
	assert.Empty(t, out.Unlocked)
	assert.Equal(t, before, tr.Progress())
	assert.Zero(t, calls)

	rawAfter, err := store.Get(state.ProgressKey)
	require.NoError(t, err)
	assert.Equal(t, rawBefore, rawAfter)
}

func TestUndoGlass(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)
	setGoal(t, tr, 4)

	out, err := tr.UndoGlass()
	assert.ErrorIs(t, err, tracker.ErrNothingToUndo)
	assert.Equal(t, tracker.MsgNothingToUndo, out.Message)

	completeDay(t, tr)
	out, err = tr.UndoGlass()
	require.NoError(t, err)
	assert.Equal(t, 3, out.Glasses)

	status := tr.Status()
	assert.False(t, status.Completed)
	assert.Equal(t, 3, status.TotalGlasses)
	assert.Equal(t, 1, status.StreakDays, "undo leaves the streak alone")
}

func TestResetDay(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)
	setGoal(t, tr, 4)

	_, err := tr.ResetDay()
	assert.ErrorIs(t, err, tracker.ErrNothingToReset)

	c.nextDay(-1)
	tr = newTracker(t, state.NewMemoryStore(), c)
	setGoal(t, tr, 4)
	_, err = tr.LogGlass()
	require.NoError(t, err)
	c.nextDay(1)
	completeDay(t, tr)

	out, err := tr.ResetDay()
	require.NoError(t, err)
	assert.Equal(t, tracker.MsgReset, out.Message)

	status := tr.Status()
	assert.Zero(t, status.Glasses)
	assert.False(t, status.Completed)
	assert.Equal(t, 1, status.TotalGlasses, "yesterday's glass survives the reset")
}

func TestTotalGlassesMatchesLog(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 500 {
		switch rng.IntN(10) {
		case 0:
			_, _ = tr.ResetDay()
		case 1, 2:
			_, _ = tr.UndoGlass()
		case 3:
			c.nextDay(1)
			_, _ = tr.LogGlass()
		default:
			_, _ = tr.LogGlass()
		}

		p := tr.Progress()
		require.Equal(t, p.SumGlasses(), p.TotalGlasses, "step %d", i)
		for day, e := range p.DailyLog {
			require.GreaterOrEqual(t, e.Glasses, 0, day)
		}
	}
}

func TestStreak(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, state.NewMemoryStore(), c)
	setGoal(t, tr, 4)

	completeDay(t, tr)
	assert.Equal(t, 1, tr.Status().StreakDays)

	c.nextDay(1)
	completeDay(t, tr)
	assert.Equal(t, 2, tr.Status().StreakDays)

	c.nextDay(1)
	completeDay(t, tr)
	assert.Equal(t, 3, tr.Status().StreakDays)

	// completing the same day again after an undo does not double count
	_, err := tr.UndoGlass()
	require.NoError(t, err)
	completeDay(t, tr)
	assert.Equal(t, 3, tr.Status().StreakDays)

	c.nextDay(2)
	completeDay(t, tr)
	assert.Equal(t, 1, tr.Status().StreakDays)
}

func TestUpdateStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	date := func(s string) *string { return &s }

	tests := []struct {
		name       string
		last       *string
		streak     int
		wantStreak int
	}{
		{"first completion", nil, 0, 1},
		{"yesterday", date("2025-03-09"), 4, 5},
		{"same day", date("2025-03-10"), 4, 4},
		{"gap", date("2025-03-07"), 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.NewUserProgress()
			p.LastCompletedDate = tt.last
			p.StreakDays = tt.streak

			tracker.UpdateStreak(p, now)
			assert.Equal(t, tt.wantStreak, p.StreakDays)
			require.NotNil(t, p.LastCompletedDate)
			assert.Equal(t, "2025-03-10", *p.LastCompletedDate)
		})
	}
}

func TestEvaluateUnlocksIdempotent(t *testing.T) {
	p := model.NewUserProgress()
	p.StreakDays = 7
	p.TotalGlasses = 120
	for i := range 5 {
		p.DailyLog[time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")] = &model.DailyLogEntry{Glasses: 8, Completed: true}
	}

	first := tracker.EvaluateUnlocks(p)
	assert.NotEmpty(t, first)
	assert.ElementsMatch(t, []string{"first-day", "week-warrior", "century-club"}, p.UnlockedBadges)
	assert.ElementsMatch(t, []string{"star", "heart", "trophy", "medal"}, p.UnlockedStickers)
	assert.ElementsMatch(t, []string{"sunglasses", "hat"}, p.UnlockedAccessories)

	second := tracker.EvaluateUnlocks(p)
	assert.Empty(t, second)
	assert.Len(t, p.UnlockedBadges, 3)
	assert.Len(t, p.UnlockedStickers, 4)
	assert.Len(t, p.UnlockedAccessories, 2)
}

func TestEvaluateUnlocksNeverRemoves(t *testing.T) {
	p := model.NewUserProgress()
	p.UnlockedBadges = []string{"champion"}

	tracker.EvaluateUnlocks(p)
	assert.Equal(t, []string{"champion"}, p.UnlockedBadges)
}

func TestRewardUnlockMessage(t *testing.T) {
	assert.Equal(t, "🎖️ New Badge Unlocked: First Drop!", tracker.Badges[0].UnlockMessage())
	assert.Equal(t, "⭐ New Sticker Earned: Gold Star!", tracker.Stickers[0].UnlockMessage())
	assert.Equal(t, "👑 New Accessory Unlocked: Sunglasses!", tracker.Accessories[0].UnlockMessage())
}

func TestFailedWriteRollsBack(t *testing.T) {
	store := state.NewMemoryStore()
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)
	setGoal(t, tr, 4)

	_, err := tr.LogGlass()
	require.NoError(t, err)
	before := tr.Progress()

	calls := 0
	tr.OnProgressChange(func() { calls++ })

	store.FailWrites = errors.New("quota exceeded")
	_, err = tr.LogGlass()
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, before, tr.Progress())
	assert.Zero(t, calls)

	err = tr.SetDailyGoal(6)
	assert.Error(t, err)
	assert.Equal(t, 4, tr.Settings().DailyGoal)

	store.FailWrites = nil
	out, err := tr.LogGlass()
	require.NoError(t, err)
	assert.Equal(t, 2, out.Glasses)
	assert.Equal(t, 1, calls)
}

func TestStatePersistsAcrossTrackers(t *testing.T) {
	store := state.NewMemoryStore()
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)
	setGoal(t, tr, 5)
	_, err := tr.LogGlass()
	require.NoError(t, err)

	reopened := newTracker(t, store, c)
	assert.Equal(t, 5, reopened.Settings().DailyGoal)
	assert.Equal(t, 1, reopened.Status().Glasses)
}

func TestToggleAccessory(t *testing.T) {
	store := state.NewMemoryStore()
	p := model.NewUserProgress()
	p.UnlockedAccessories = []string{"hat"}
	require.NoError(t, state.SaveProgress(store, p))

	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)

	_, err := tr.ToggleAccessory("cape")
	assert.ErrorIs(t, err, tracker.ErrUnknownAccessory)

	_, err = tr.ToggleAccessory("crown")
	assert.ErrorIs(t, err, tracker.ErrAccessoryLocked)

	current, err := tr.ToggleAccessory("hat")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "hat", *current)
	assert.Equal(t, "hat", tr.Status().CurrentAccessory)

	current, err = tr.ToggleAccessory("hat")
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Empty(t, tr.Status().CurrentAccessory)
}

func TestTrackerEvaluateUnlocks(t *testing.T) {
	store := state.NewMemoryStore()
	p := model.NewUserProgress()
	p.TotalGlasses = 100
	p.DailyLog["2025-03-01"] = &model.DailyLogEntry{Glasses: 100}
	require.NoError(t, state.SaveProgress(store, p))

	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := newTracker(t, store, c)

	unlocked, err := tr.EvaluateUnlocks()
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "century-club", unlocked[0].ID)

	unlocked, err = tr.EvaluateUnlocks()
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}
