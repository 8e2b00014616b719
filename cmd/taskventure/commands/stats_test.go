package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nhle/taskventure/internal/model"
)

func TestWriteStats(t *testing.T) {
	report := statsReport{
		Tasks:          model.TaskStatistics{Total: 4, Completed: 1, Overdue: 2, Upcoming: 1},
		CompletionRate: 0.25,
		Travels:        model.TravelStatistics{Total: 2, Active: 1, Upcoming: 1},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeStats(&buf, report, "json"); err != nil {
			t.Fatal(err)
		}
		var got statsReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Tasks.Total != 4 || !strings.Contains(buf.String(), `"total_tasks": 4`) {
			t.Fatalf("unexpected output %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeStats(&buf, report, "yaml"); err != nil {
			t.Fatal(err)
		}
		var got statsReport
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Tasks.Overdue != 2 || got.Travels.Active != 1 || got.CompletionRate != 0.25 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeStats(&buf, report, "text"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "4 total, 1 completed (25%)") {
			t.Fatalf("got %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := writeStats(&bytes.Buffer{}, report, "xml"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
