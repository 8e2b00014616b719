package commands

import (
	"github.com/spf13/cobra"

	"github.com/nhle/taskventure/internal/model"
)

// NewRootCmd creates the taskventure command. Without a subcommand it
// starts the terminal UI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "taskventure",
		Short:        "Plan tasks and trips from the terminal",
		Long:         "TaskVenture keeps a prioritized task list and travel plans with itineraries, local tips and reminders.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the database (overrides storage.db_path)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewTUICmd(flags))
	rootCmd.AddCommand(NewStatsCmd(flags))
	rootCmd.AddCommand(NewExportCmd(flags))
	rootCmd.AddCommand(NewImportCmd(flags))
	rootCmd.AddCommand(NewResetCmd(flags))
	rootCmd.AddCommand(NewSampleCmd(flags))
	rootCmd.AddCommand(NewNotifyCmd(flags))
	rootCmd.AddCommand(NewMCPCmd(flags))
	rootCmd.AddCommand(NewCredentialCmd(flags))

	return rootCmd
}
