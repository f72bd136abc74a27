package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

func SettingsCmd(cfg *config.ClientConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				s := t.Settings()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Daily goal:          %d glasses\n", s.DailyGoal)
				fmt.Fprintf(out, "Reminder frequency:  %g minutes\n", s.BaseReminderFrequency)
				fmt.Fprintf(out, "Font size:           %s\n", s.FontSize)
				fmt.Fprintf(out, "High contrast:       %t\n", s.HighContrast)
				return nil
			})
		},
	}

	c.AddCommand(&cobra.Command{
		Use:   "goal <n|+n|-n>",
		Short: "Set the daily goal, or adjust it with a sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid goal %q", args[0])
			}
			relative := strings.HasPrefix(args[0], "+") || strings.HasPrefix(args[0], "-")

			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				goal := n
				if relative {
					goal, err = t.AdjustDailyGoal(n)
				} else {
					err = t.SetDailyGoal(n)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Daily goal set to %d glasses\n", goal)
				return nil
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "frequency <minutes>",
		Short: "Set the base reminder frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid frequency %q", args[0])
			}
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				return t.SetBaseReminderFrequency(minutes)
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "font <small|medium|large>",
		Short: "Set the font size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				return t.SetFontSize(args[0])
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "contrast <on|off>",
		Short: "Toggle high contrast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				on = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("invalid value %q, want on or off", args[0])
			}
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				return t.SetHighContrast(on)
			})
		},
	})

	return c
}
