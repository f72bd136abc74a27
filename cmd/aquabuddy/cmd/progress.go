package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

func StatusCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				printStatus(cmd.OutOrStdout(), t.Status())
				return nil
			})
		},
	}
}

func WeekCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show this week's summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				out := cmd.OutOrStdout()
				for _, d := range t.WeeklySummary() {
					bar := strings.Repeat("█", d.Percent/10)
					fmt.Fprintf(out, "%s %-10s %3d%% (%d)\n", d.Label, bar, d.Percent, d.Glasses)
				}
				return nil
			})
		},
	}
}

func CalendarCmd(cfg *config.ClientConfig) *cobra.Command {
	var month string

	c := &cobra.Command{
		Use:   "calendar",
		Short: "Show completed days for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if month != "" {
				parsed, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --month %q, want YYYY-MM", month)
				}
				at = parsed
			}

			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %d\n", at.Month(), at.Year())
				for _, d := range t.MonthCalendar(at.Year(), at.Month()) {
					mark := "  "
					if d.Completed {
						mark = "💧"
					}
					today := ""
					if d.Today {
						today = " <- today"
					}
					fmt.Fprintf(out, "%2d %s%s\n", d.Day, mark, today)
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM), defaults to the current month")
	return c
}

func RewardsCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "rewards",
		Short: "List badges, stickers and accessories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				out := cmd.OutOrStdout()
				p := t.Progress()

				sections := []struct {
					title   string
					catalog []tracker.Reward
					have    []string
				}{
					{"Badges", tracker.Badges, p.UnlockedBadges},
					{"Stickers", tracker.Stickers, p.UnlockedStickers},
					{"Accessories", tracker.Accessories, p.UnlockedAccessories},
				}
				for _, s := range sections {
					fmt.Fprintln(out, s.title)
					for _, r := range s.catalog {
						status := "🔒"
						for _, id := range s.have {
							if id == r.ID {
								status = r.Icon
								break
							}
						}
						fmt.Fprintf(out, "  %s %-14s %s\n", status, r.Name, r.Description)
					}
				}
				return nil
			})
		},
	}
}

func AccessoryCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "accessory <id>",
		Short: "Put on or take off an unlocked accessory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				current, err := t.ToggleAccessory(args[0])
				if err != nil {
					return err
				}
				if current == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Accessory removed")
					return nil
				}
				a, _ := tracker.FindAccessory(*current)
				fmt.Fprintf(cmd.OutOrStdout(), "Now wearing %s %s\n", a.Icon, a.Name)
				return nil
			})
		},
	}
}
