package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/app"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/worker"
)

// TaskCmd runs one cycle of a queue task against the configured database,
// outside the server's schedule.
func TaskCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Run a background task once",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "drain",
		Short: "Send every due notification now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app.App) error {
				return worker.RunOnce(cmd.Context(), worker.Task{
					Name: "drain",
					Run: func(ctx context.Context) error {
						res, err := a.NotificationService.DrainDue(ctx)
						if err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "selected %d, sent %d, failed %d\n", res.Selected, res.Succeeded, res.Failed)
						return nil
					},
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete sent notifications past retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app.App) error {
				return worker.RunOnce(cmd.Context(), worker.Task{
					Name: "cleanup",
					Run: func(ctx context.Context) error {
						deleted, err := a.NotificationService.CleanupSent(ctx)
						if err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", deleted)
						return nil
					},
				})
			})
		},
	})

	return cmd
}

func withApp(cmd *cobra.Command, cfg *config.Config, fn func(a *app.App) error) error {
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
