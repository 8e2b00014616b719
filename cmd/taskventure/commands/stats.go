package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/taskventure/internal/model"
)

// statsReport is the output of the stats command.
type statsReport struct {
	Tasks          model.TaskStatistics   `json:"tasks" yaml:"tasks"`
	CompletionRate float64                `json:"completion_rate" yaml:"completion_rate"`
	Travels        model.TravelStatistics `json:"travels" yaml:"travels"`
}

// NewStatsCmd creates the stats command.
func NewStatsCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print task and travel statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			ts := e.gateway.TaskStatistics(cmd.Context())
			report := statsReport{
				Tasks:          ts,
				CompletionRate: ts.CompletionRate(),
				Travels:        e.gateway.TravelStatistics(cmd.Context()),
			}
			return writeStats(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func writeStats(w io.Writer, r statsReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(w, "Tasks:   %d total, %d completed (%.0f%%), %d overdue, %d upcoming\n",
			r.Tasks.Total, r.Tasks.Completed, r.CompletionRate*100, r.Tasks.Overdue, r.Tasks.Upcoming)
		fmt.Fprintf(w, "Travels: %d total, %d active, %d upcoming, %d past\n",
			r.Travels.Total, r.Travels.Active, r.Travels.Upcoming, r.Travels.Past)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
