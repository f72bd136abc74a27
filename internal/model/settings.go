package model

const (
	MinDailyGoal = 4
	MaxDailyGoal = 12

	FontSizeSmall  = "small"
	FontSizeMedium = "medium"
	FontSizeLarge  = "large"
)

type Settings struct {
	DailyGoal             int     `json:"dailyGoal"`
	BaseReminderFrequency float64 `json:"baseReminderFrequency"` // minutes
	FontSize              string  `json:"fontSize"`
	HighContrast          bool    `json:"highContrast"`
}

func DefaultSettings() Settings {
	return Settings{
		DailyGoal:             8,
		BaseReminderFrequency: 60,
		FontSize:              FontSizeMedium,
		HighContrast:          false,
	}
}

func ValidFontSize(size string) bool {
	switch size {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge:
		return true
	}
	return false
}
