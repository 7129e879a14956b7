package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyr-app/core/cmd/zephyr/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zephyr",
		Short: "Zephyr persistence server",
		Long:  `Zephyr is the local persistence and derived-view backend for the Zephyr productivity app: tasks, notes, journal, calendar, focus timer and notifications over one embedded store.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
