package tracker

import (
	"fmt"
	"slices"

	"github.com/templui/aquabuddy/internal/model"
)

type RewardKind string

const (
	KindBadge     RewardKind = "badge"
	KindSticker   RewardKind = "sticker"
	KindAccessory RewardKind = "accessory"
)

// Stats are the aggregates every unlock rule is evaluated against.
type Stats struct {
	TotalDaysCompleted int
	StreakDays         int
	TotalGlasses       int
}

func StatsOf(p *model.UserProgress) Stats {
	return Stats{
		TotalDaysCompleted: p.TotalDaysCompleted(),
		StreakDays:         p.StreakDays,
		TotalGlasses:       p.TotalGlasses,
	}
}

type Reward struct {
	Kind        RewardKind
	ID          string
	Name        string
	Icon        string
	Description string
	rule        func(Stats) bool
}

// Unlocked reports whether the reward's threshold is met.
func (r Reward) Unlocked(s Stats) bool {
	return r.rule(s)
}

func (r Reward) UnlockMessage() string {
	switch r.Kind {
	case KindBadge:
		return fmt.Sprintf("🎖️ New Badge Unlocked: %s!", r.Name)
	case KindSticker:
		return fmt.Sprintf("⭐ New Sticker Earned: %s!", r.Name)
	default:
		return fmt.Sprintf("👑 New Accessory Unlocked: %s!", r.Name)
	}
}

func daysAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.TotalDaysCompleted >= n }
}

func streakAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.StreakDays >= n }
}

func glassesAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.TotalGlasses >= n }
}

var Badges = []Reward{
	{KindBadge, "first-day", "First Drop", "💧", "Complete your first day", daysAtLeast(1)},
	{KindBadge, "week-warrior", "Week Warrior", "🔥", "7 day streak", streakAtLeast(7)},
	{KindBadge, "hydration-hero", "Hydration Hero", "🦸", "30 days completed", daysAtLeast(30)},
	{KindBadge, "century-club", "Century Club", "💯", "100 glasses total", glassesAtLeast(100)},
	{KindBadge, "dedication", "Dedication", "⭐", "30 day streak", streakAtLeast(30)},
	{KindBadge, "champion", "Champion", "🏆", "100 days completed", daysAtLeast(100)},
}

var Stickers = []Reward{
	{KindSticker, "star", "Gold Star", "⭐", "Complete 1 day", daysAtLeast(1)},
	{KindSticker, "heart", "Heart", "❤️", "Complete 3 days", daysAtLeast(3)},
	{KindSticker, "trophy", "Trophy", "🏆", "Complete 5 days", daysAtLeast(5)},
	{KindSticker, "medal", "Medal", "🥇", "7 day streak", streakAtLeast(7)},
	{KindSticker, "crown", "Crown", "👑", "14 day streak", streakAtLeast(14)},
	{KindSticker, "diamond", "Diamond", "💎", "Complete 20 days", daysAtLeast(20)},
}

var Accessories = []Reward{
	{KindAccessory, "sunglasses", "Sunglasses", "🕶️", "Complete 3 days", daysAtLeast(3)},
	{KindAccessory, "hat", "Hat", "🎩", "5 day streak", streakAtLeast(5)},
	{KindAccessory, "bow", "Bow", "🎀", "Complete 7 days", daysAtLeast(7)},
	{KindAccessory, "crown", "Crown", "👑", "10 day streak", streakAtLeast(10)},
	{KindAccessory, "wizard-hat", "Wizard Hat", "🧙", "Complete 15 days", daysAtLeast(15)},
	{KindAccessory, "party-hat", "Party Hat", "🎉", "20 day streak", streakAtLeast(20)},
}

// FindAccessory looks up an accessory by id.
func FindAccessory(id string) (Reward, bool) {
	for _, a := range Accessories {
		if a.ID == id {
			return a, true
		}
	}
	return Reward{}, false
}

// EvaluateUnlocks appends every newly satisfied reward id to the matching
// unlocked set and returns those rewards in catalog order. Ids are never
// removed or duplicated.
func EvaluateUnlocks(p *model.UserProgress) []Reward {
	stats := StatsOf(p)

	var unlocked []Reward
	unlocked = unlockFrom(Badges, stats, &p.UnlockedBadges, unlocked)
	unlocked = unlockFrom(Stickers, stats, &p.UnlockedStickers, unlocked)
	unlocked = unlockFrom(Accessories, stats, &p.UnlockedAccessories, unlocked)
	return unlocked
}

func unlockFrom(catalog []Reward, stats Stats, have *[]string, out []Reward) []Reward {
	for _, r := range catalog {
		if !r.Unlocked(stats) || slices.Contains(*have, r.ID) {
			continue
		}
		*have = append(*have, r.ID)
		out = append(out, r)
	}
	return out
}
