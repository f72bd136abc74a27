package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/cmd/aquabuddy/cmd"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/logger"
)

func main() {
	cfg := config.LoadClient()

	logger.Init(logger.Options{
		Development: cfg.Debug,
		Output:      os.Stderr,
		Component:   "cli",
	})

	rootCmd := &cobra.Command{
		Use:          "aquabuddy",
		Short:        "Your friendly hydration buddy",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.StatePath, "state", cfg.StatePath, "path to the local state database")

	rootCmd.AddCommand(cmd.LogCmd(cfg))
	rootCmd.AddCommand(cmd.UndoCmd(cfg))
	rootCmd.AddCommand(cmd.ResetCmd(cfg))
	rootCmd.AddCommand(cmd.StatusCmd(cfg))
	rootCmd.AddCommand(cmd.WeekCmd(cfg))
	rootCmd.AddCommand(cmd.CalendarCmd(cfg))
	rootCmd.AddCommand(cmd.RewardsCmd(cfg))
	rootCmd.AddCommand(cmd.AccessoryCmd(cfg))
	rootCmd.AddCommand(cmd.SettingsCmd(cfg))
	rootCmd.AddCommand(cmd.RunCmd(cfg))
	rootCmd.AddCommand(cmd.NotifyCmd(cfg))
	rootCmd.AddCommand(cmd.BackupCmd(cfg))
	rootCmd.AddCommand(cmd.CaregiverCmd(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
