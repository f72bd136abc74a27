package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

func LogCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Log a glass of water",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				o, err := t.LogGlass()
				if errors.Is(err, tracker.ErrGoalAlreadyReached) {
					fmt.Fprintln(cmd.OutOrStdout(), o.Message)
					return nil
				}
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), o)
				return nil
			})
		},
	}
}

func UndoCmd(cfg *config.ClientConfig) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last glass logged today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				out := cmd.OutOrStdout()
				if t.Status().Glasses == 0 {
					fmt.Fprintln(out, tracker.MsgNothingToUndo)
					return nil
				}
				if !yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to undo your last glass of water? This will remove one glass from today's count.") {
					return nil
				}

				o, err := t.UndoGlass()
				if errors.Is(err, tracker.ErrNothingToUndo) {
					fmt.Fprintln(out, o.Message)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, o.Message)
				return nil
			})
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return c
}

func ResetCmd(cfg *config.ClientConfig) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "reset",
		Short: "Reset today's count to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				out := cmd.OutOrStdout()
				glasses := t.Status().Glasses
				if glasses == 0 {
					fmt.Fprintln(out, tracker.MsgNothingToReset)
					return nil
				}
				q := fmt.Sprintf("Are you sure you want to reset today's progress? This will remove all %d glass(es) from your count today.", glasses)
				if !yes && !confirm(cmd.InOrStdin(), out, q) {
					return nil
				}

				o, err := t.ResetDay()
				if errors.Is(err, tracker.ErrNothingToReset) {
					fmt.Fprintln(out, o.Message)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, o.Message)
				return nil
			})
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return c
}
