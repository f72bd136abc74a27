package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/backup"
	"github.com/templui/aquabuddy/internal/client"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/storage"
	"github.com/templui/aquabuddy/internal/tracker"
)

func NotifyCmd(cfg *config.ClientConfig) *cobra.Command {
	var title string

	c := &cobra.Command{
		Use:   "notify",
		Short: "Send or schedule push notifications to this device",
	}
	c.PersistentFlags().StringVar(&title, "title", "", "notification title (server default when empty)")

	var delay float64
	schedule := &cobra.Command{
		Use:   "schedule <message>",
		Short: "Queue a push notification on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(cfg.ServerURL, cfg.PushToken)
			res, err := api.Schedule(cmd.Context(), title, args[0], delay)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s for %s\n", res.Message, res.ScheduledTime.Local().Format(time.RFC1123))
			return nil
		},
	}
	schedule.Flags().Float64Var(&delay, "delay", 60, "minutes from now")

	send := &cobra.Command{
		Use:   "send <message>",
		Short: "Push a notification right away",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(cfg.ServerURL, cfg.PushToken)
			id, err := api.Send(cmd.Context(), title, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent (%s)\n", id)
			return nil
		},
	}

	c.AddCommand(schedule, send)
	return c
}

func CaregiverCmd(cfg *config.ClientConfig) *cobra.Command {
	var name, message string

	c := &cobra.Command{
		Use:   "caregiver <email>",
		Short: "Ask a caregiver for a hydration check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(cfg.ServerURL, cfg.PushToken)
			err := api.Contact(cmd.Context(), args[0], name, message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Your caregiver has been contacted 💙")
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "caregiver name")
	c.Flags().StringVar(&message, "message", "", "personal message")
	return c
}

func BackupCmd(cfg *config.ClientConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "backup",
		Short: "Back up progress to S3-compatible storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objects, err := storage.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return withTracker(cfg, func(store *state.BoltStore, _ *tracker.Tracker) error {
				key, err := backup.Backup(cmd.Context(), store, objects, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "backed up to %s\n", key)
				return nil
			})
		},
	}

	var key string
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore progress from a backup (latest by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objects, err := storage.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			store, err := state.NewBoltStore(cfg.StatePath)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := backup.Restore(cmd.Context(), store, objects, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored backup from %s\n", snap.CreatedAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	restore.Flags().StringVar(&key, "key", "", "backup object key")

	c.AddCommand(restore)
	return c
}
