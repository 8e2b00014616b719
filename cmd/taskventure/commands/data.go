package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/taskventure/internal/store"
)

// NewExportCmd creates the export command.
func NewExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all data as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			bundle, err := e.gateway.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				defer f.Close()
				w = f
			}
			return writeBundle(w, bundle)
		},
	}
}

func writeBundle(w io.Writer, b store.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// NewImportCmd creates the import command.
func NewImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import data previously written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var bundle store.Bundle
			if err := json.Unmarshal(data, &bundle); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.gateway.Import(cmd.Context(), bundle); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			e.tasks.Reload(cmd.Context())
			e.travels.Reload(cmd.Context())
			rescheduleAll(cmd.Context(), e)

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks and %d trips (exported %s)\n",
				len(e.tasks.Tasks()), len(e.travels.Travels()), bundle.ExportedAt().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

// NewResetCmd creates the reset command.
func NewResetCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tasks, trips and pending reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes everything; rerun with --yes to confirm")
			}
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.gateway.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset: %w", err)
			}
			if err := e.center.RemoveAll(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear reminders: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

// NewSampleCmd creates the sample command.
func NewSampleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Add the demo tasks and trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			e.tasks.CreateSampleTasks(cmd.Context())
			e.travels.CreateSampleTravels(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Now %d tasks and %d trips\n",
				len(e.tasks.Tasks()), len(e.travels.Travels()))
			return nil
		},
	}
}

// rescheduleAll drops every pending reminder and registers those of the
// loaded tasks and trips.
func rescheduleAll(ctx context.Context, e *env) {
	e.scheduler.CancelAll(ctx)
	e.tasks.Reschedule(ctx)
	e.travels.Reschedule(ctx)
}
