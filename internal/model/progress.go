package model

// DailyLogEntry is one calendar day of logged glasses.
type DailyLogEntry struct {
	Glasses   int   `json:"glasses"`
	Completed bool  `json:"completed"`
	Timestamp int64 `json:"timestamp"` // epoch millis at creation
}

type UserProgress struct {
	DailyLog            map[string]*DailyLogEntry `json:"dailyLog"`
	TotalGlasses        int                       `json:"totalGlasses"`
	StreakDays          int                       `json:"streakDays"`
	LastCompletedDate   *string                   `json:"lastCompletedDate"`
	UnlockedBadges      []string                  `json:"unlockedBadges"`
	UnlockedStickers    []string                  `json:"unlockedStickers"`
	UnlockedAccessories []string                  `json:"unlockedAccessories"`
	CurrentAccessory    *string                   `json:"currentAccessory"`
}

func NewUserProgress() *UserProgress {
	return &UserProgress{
		DailyLog:            make(map[string]*DailyLogEntry),
		UnlockedBadges:      []string{},
		UnlockedStickers:    []string{},
		UnlockedAccessories: []string{},
	}
}

// TotalDaysCompleted counts log entries currently marked completed.
func (p *UserProgress) TotalDaysCompleted() int {
	count := 0
	for _, day := range p.DailyLog {
		if day.Completed {
			count++
		}
	}
	return count
}

// SumGlasses recomputes the glasses total from the daily log.
func (p *UserProgress) SumGlasses() int {
	sum := 0
	for _, day := range p.DailyLog {
		sum += day.Glasses
	}
	return sum
}

// Clone returns a deep copy.
func (p *UserProgress) Clone() *UserProgress {
	c := &UserProgress{
		DailyLog:            make(map[string]*DailyLogEntry, len(p.DailyLog)),
		TotalGlasses:        p.TotalGlasses,
		StreakDays:          p.StreakDays,
		UnlockedBadges:      append([]string{}, p.UnlockedBadges...),
		UnlockedStickers:    append([]string{}, p.UnlockedStickers...),
		UnlockedAccessories: append([]string{}, p.UnlockedAccessories...),
	}
	for k, v := range p.DailyLog {
		entry := *v
		c.DailyLog[k] = &entry
	}
	if p.LastCompletedDate != nil {
		d := *p.LastCompletedDate
		c.LastCompletedDate = &d
	}
	if p.CurrentAccessory != nil {
		a := *p.CurrentAccessory
		c.CurrentAccessory = &a
	}
	return c
}
