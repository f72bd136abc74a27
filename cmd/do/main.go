package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/cmd/do/cmd"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Output:      os.Stderr,
		Component:   "do",
	})

	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Development tools for aquabuddy",
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.TaskCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
