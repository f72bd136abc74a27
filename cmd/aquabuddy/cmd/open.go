package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

// withTracker opens the state database for the duration of fn.
func withTracker(cfg *config.ClientConfig, fn func(store *state.BoltStore, t *tracker.Tracker) error) error {
	store, err := state.NewBoltStore(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("%w (is an aquabuddy session already running?)", err)
	}
	defer store.Close()

	t, err := tracker.New(store)
	if err != nil {
		return err
	}
	return fn(store, t)
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func printOutcome(out io.Writer, o tracker.Outcome) {
	fmt.Fprintln(out, o.Message)
	for _, r := range o.Unlocked {
		fmt.Fprintln(out, r.UnlockMessage())
	}
	if o.GoalCompleted {
		fmt.Fprintln(out, tracker.MsgGoalCompleted)
	}
}

func printStatus(out io.Writer, s tracker.Status) {
	fmt.Fprintf(out, "%s: %d / %d glasses (%d%%)\n", s.Date, s.Glasses, s.Goal, s.Percent)
	if s.GlassesLeft > 0 {
		fmt.Fprintf(out, "%d to go\n", s.GlassesLeft)
	} else {
		fmt.Fprintln(out, "🎉 Goal completed! You're a hydration champion!")
	}
	fmt.Fprintf(out, "Streak: %d days | Total: %d glasses\n", s.StreakDays, s.TotalGlasses)
	if s.CurrentAccessory != "" {
		if a, ok := tracker.FindAccessory(s.CurrentAccessory); ok {
			fmt.Fprintf(out, "Wearing: %s %s\n", a.Icon, a.Name)
		}
	}
}
