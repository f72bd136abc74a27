// Package state persists the two client documents (settings and progress)
// as whole JSON values under fixed keys.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/templui/aquabuddy/internal/model"
)

const (
	SettingsKey = "aqua-buddy-settings"
	ProgressKey = "aqua-buddy-data"
)

// Store is a key/value store of JSON documents. Get returns nil, nil for a
// missing key. Set replaces the whole value.
type Store interface {
	Get(key string) (json.RawMessage, error)
	Set(key string, value json.RawMessage) error
}

// LoadSettings returns the stored settings layered over the defaults, so
// documents written by older versions pick up new fields.
func LoadSettings(s Store) (model.Settings, error) {
	settings := model.DefaultSettings()

	raw, err := s.Get(SettingsKey)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if raw == nil {
		return settings, nil
	}

	err = json.Unmarshal(raw, &settings)
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func SaveSettings(s Store, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	err = s.Set(SettingsKey, raw)
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func LoadProgress(s Store) (*model.UserProgress, error) {
	raw, err := s.Get(ProgressKey)
	if err != nil {
		return model.NewUserProgress(), fmt.Errorf("failed to read progress: %w", err)
	}
	if raw == nil {
		return model.NewUserProgress(), nil
	}

	progress := model.NewUserProgress()
	err = json.Unmarshal(raw, progress)
	if err != nil {
		return model.NewUserProgress(), fmt.Errorf("failed to decode progress: %w", err)
	}

	// null in the document decodes to nil
	if progress.DailyLog == nil {
		progress.DailyLog = make(map[string]*model.DailyLogEntry)
	}
	if progress.UnlockedBadges == nil {
		progress.UnlockedBadges = []string{}
	}
	if progress.UnlockedStickers == nil {
		progress.UnlockedStickers = []string{}
	}
	if progress.UnlockedAccessories == nil {
		progress.UnlockedAccessories = []string{}
	}
	return progress, nil
}

func SaveProgress(s Store, progress *model.UserProgress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	err = s.Set(ProgressKey, raw)
	if err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}
