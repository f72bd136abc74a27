package tracker

import (
	"time"

	"github.com/templui/aquabuddy/internal/model"
)

// DaySummary is one bar of the weekly chart.
type DaySummary struct {
	Date    string
	Label   string
	Glasses int
	Percent int // capped at 100
}

// CalendarDay is one day of a month view.
type CalendarDay struct {
	Date      string
	Day       int
	Today     bool
	Completed bool
}

// Status is a read-only snapshot of today.
type Status struct {
	Date             string
	Glasses          int
	Goal             int
	GlassesLeft      int
	Percent          int
	Completed        bool
	StreakDays       int
	TotalGlasses     int
	CurrentAccessory string
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.todayEntry()
	goal := t.settings.DailyGoal

	s := Status{
		Date:         t.todayKey(),
		Glasses:      today.Glasses,
		Goal:         goal,
		GlassesLeft:  max(0, goal-today.Glasses),
		Percent:      percent(today.Glasses, goal),
		Completed:    today.Completed,
		StreakDays:   t.progress.StreakDays,
		TotalGlasses: t.progress.TotalGlasses,
	}
	if t.progress.CurrentAccessory != nil {
		s.CurrentAccessory = *t.progress.CurrentAccessory
	}
	return s
}

func (t *Tracker) GlassesLeft() int {
	return t.Status().GlassesLeft
}

// ProgressRatio is today's glasses divided by the goal, uncapped.
func (t *Tracker) ProgressRatio() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ratio(t.todayEntry().Glasses, t.settings.DailyGoal)
}

// ReminderInputs returns what the reminder scheduler needs from the tracker.
func (t *Tracker) ReminderInputs() (glasses, goal int, baseMinutes float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.todayEntry().Glasses, t.settings.DailyGoal, t.settings.BaseReminderFrequency
}

// Progress returns a copy of the stored progress document.
func (t *Tracker) Progress() *model.UserProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Clone()
}

// WeeklySummary covers Monday to Sunday of the current week.
func (t *Tracker) WeeklySummary() []DaySummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	monday := now.AddDate(0, 0, -offset)

	week := make([]DaySummary, 0, 7)
	for i := range 7 {
		key := monday.AddDate(0, 0, i).Format(dateLayout)
		glasses := 0
		if e, ok := t.progress.DailyLog[key]; ok {
			glasses = e.Glasses
		}
		week = append(week, DaySummary{
			Date:    key,
			Label:   weekdayLabels[i],
			Glasses: glasses,
			Percent: percent(glasses, t.settings.DailyGoal),
		})
	}
	return week
}

// MonthCalendar lists every day of month in year, in the tracker's location.
func (t *Tracker) MonthCalendar(year int, month time.Month) []CalendarDay {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	todayKey := now.Format(dateLayout)
	first := time.Date(year, month, 1, 12, 0, 0, 0, now.Location())

	var days []CalendarDay
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		e, ok := t.progress.DailyLog[key]
		days = append(days, CalendarDay{
			Date:      key,
			Day:       d.Day(),
			Today:     key == todayKey,
			Completed: ok && e.Completed,
		})
	}
	return days
}

func (t *Tracker) todayEntry() model.DailyLogEntry {
	if e, ok := t.progress.DailyLog[t.todayKey()]; ok {
		return *e
	}
	return model.DailyLogEntry{}
}

func ratio(glasses, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(glasses) / float64(goal)
}

func percent(glasses, goal int) int {
	return min(100, int(ratio(glasses, goal)*100))
}
