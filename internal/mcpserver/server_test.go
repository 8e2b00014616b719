package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/store"
	"github.com/nhle/taskventure/internal/viewmodel"
)

var now = time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)

func newServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	clock := func() time.Time { return now }

	g := store.NewGateway(store.NewMemoryStore(), logger).WithClock(clock)
	tasks := viewmodel.NewTaskManager(ctx, g, viewmodel.WithClock(clock), viewmodel.WithLogger(logger))
	travels := viewmodel.NewTravelManager(ctx, g, viewmodel.WithClock(clock), viewmodel.WithLogger(logger))
	return NewServer(tasks, travels, logger).WithClock(clock)
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var out string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func TestAddTask(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
		check   func(t *testing.T, task model.Task)
	}{
		{
			name: "wall clock due date in zone",
			args: map[string]any{
				"title":     "Pay rent",
				"priority":  "urgent",
				"time_zone": "Europe/Paris",
				"due_date":  "2025-09-12 18:00",
			},
			check: func(t *testing.T, task model.Task) {
				want := time.Date(2025, 9, 12, 16, 0, 0, 0, time.UTC)
				if task.DueDate == nil || !task.DueDate.Equal(want) {
					t.Fatalf("due %v, want %v", task.DueDate, want)
				}
				if task.ReminderTime == nil || !task.ReminderTime.Equal(want) {
					t.Fatalf("reminder should default to the due date, got %v", task.ReminderTime)
				}
				if task.Priority != model.PriorityUrgent || task.TimeZone.Name() != "Europe/Paris" {
					t.Fatalf("unexpected task %+v", task)
				}
			},
		},
		{
			name: "local zone and defaults",
			args: map[string]any{"title": "Read book", "time_zone": "local"},
			check: func(t *testing.T, task model.Task) {
				if task.Priority != model.PriorityMedium || task.Category != model.CategoryPersonal || task.DueDate != nil {
					t.Fatalf("unexpected task %+v", task)
				}
			},
		},
		{
			name: "control characters and padding stripped",
			args: map[string]any{"title": "  Buy\x00 milk \x07 ", "description": " aisle 3\x1b "},
			check: func(t *testing.T, task model.Task) {
				if task.Title != "Buy milk" || task.Description != "aisle 3" {
					t.Fatalf("title %q description %q", task.Title, task.Description)
				}
			},
		},
		{name: "blank title", args: map[string]any{"title": "  "}, wantErr: "title is required"},
		{name: "bad priority", args: map[string]any{"title": "x", "priority": "asap"}, wantErr: "priority"},
		{name: "bad zone", args: map[string]any{"title": "x", "time_zone": "Mars/Base"}, wantErr: "time zone"},
		{name: "bad date", args: map[string]any{"title": "x", "due_date": "tomorrow"}, wantErr: "invalid due_date"},
		{name: "reminder without due date", args: map[string]any{"title": "x", "reminder": "2025-09-12T08:00:00Z"}, wantErr: "needs a due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t)
			res, err := s.handleAddTask(context.Background(), request(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			out := text(t, res)
			if tt.wantErr != "" {
				if !res.IsError || !strings.Contains(out, tt.wantErr) {
					t.Fatalf("want error containing %q, got %q", tt.wantErr, out)
				}
				if n := len(s.tasks.Tasks()); n != 0 {
					t.Fatalf("rejected input added %d tasks", n)
				}
				return
			}
			if res.IsError {
				t.Fatalf("unexpected error %q", out)
			}
			var task model.Task
			if err := json.Unmarshal([]byte(out), &task); err != nil {
				t.Fatalf("decode: %v", err)
			}
			stored, ok := s.tasks.Task(task.ID)
			if !ok {
				t.Fatal("task not stored")
			}
			tt.check(t, stored)
		})
	}
}

func TestToggleAndDeleteTask(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)
	task := model.NewTask("Call mom", now)
	s.tasks.Add(ctx, task)

	res, _ := s.handleToggleTask(ctx, request(map[string]any{"id": task.ID}))
	if res.IsError {
		t.Fatalf("toggle: %s", text(t, res))
	}
	if got, _ := s.tasks.Task(task.ID); !got.IsCompleted {
		t.Fatal("task should be completed")
	}

	res, _ = s.handleDeleteTask(ctx, request(map[string]any{"id": task.ID}))
	if res.IsError || len(s.tasks.Tasks()) != 0 {
		t.Fatalf("delete: %s", text(t, res))
	}

	res, _ = s.handleDeleteTask(ctx, request(map[string]any{"id": task.ID}))
	if !res.IsError || !strings.Contains(text(t, res), "not found") {
		t.Fatalf("deleting twice should report not found, got %q", text(t, res))
	}
}

func TestListTasksFilters(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)
	s.tasks.Add(ctx, model.NewTask("Quarterly report", now, model.WithCategory(model.CategoryWork)))
	s.tasks.Add(ctx, model.NewTask("Buy milk", now, model.WithCategory(model.CategoryShopping)))

	res, _ := s.handleListTasks(ctx, request(map[string]any{"category": "work"}))
	var tasks []model.Task
	if err := json.Unmarshal([]byte(text(t, res)), &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Quarterly report" {
		t.Fatalf("got %+v", tasks)
	}

	res, _ = s.handleListTasks(ctx, request(map[string]any{"search": "nothing"}))
	if text(t, res) != "No tasks found." {
		t.Fatalf("got %q", text(t, res))
	}

	res, _ = s.handleListTasks(ctx, request(map[string]any{"sort": "random"}))
	if !res.IsError {
		t.Fatal("unknown sort should be rejected")
	}
}

func TestOverdueAndUpcoming(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)
	s.tasks.Add(ctx, model.NewTask("late", now, model.WithDueDate(now.Add(-time.Hour))))
	s.tasks.Add(ctx, model.NewTask("soon", now, model.WithDueDate(now.Add(time.Hour))))

	res, _ := s.handleOverdueTasks(ctx, request(nil))
	if !strings.Contains(text(t, res), "late") || strings.Contains(text(t, res), "soon") {
		t.Fatalf("overdue: %s", text(t, res))
	}

	res, _ = s.handleUpcomingTasks(ctx, request(map[string]any{"limit": float64(1)}))
	if !strings.Contains(text(t, res), "soon") || strings.Contains(text(t, res), "late") {
		t.Fatalf("upcoming: %s", text(t, res))
	}
}

func TestTravelTools(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	res, _ := s.handleAddTravel(ctx, request(map[string]any{
		"destination":    "Tokyo",
		"departure_date": "2025-09-09 10:00",
		"return_date":    "2025-09-20 18:00",
		"time_zone":      "Asia/Tokyo",
		"active":         true,
	}))
	if res.IsError {
		t.Fatalf("add_travel: %s", text(t, res))
	}
	var trip model.Travel
	if err := json.Unmarshal([]byte(text(t, res)), &trip); err != nil {
		t.Fatalf("decode: %v", err)
	}

	res, _ = s.handleAddItineraryItem(ctx, request(map[string]any{
		"travel_id": trip.ID,
		"title":     "Sushi dinner",
		"date":      "2025-09-10 19:00",
		"type":      "dining",
	}))
	if res.IsError {
		t.Fatalf("add_itinerary_item: %s", text(t, res))
	}
	res, _ = s.handleAddLocalTip(ctx, request(map[string]any{
		"travel_id": trip.ID,
		"title":     "IC card",
		"content":   "Get a Suica card at the airport",
		"category":  "transportation",
	}))
	if res.IsError {
		t.Fatalf("add_local_tip: %s", text(t, res))
	}

	stored, _ := s.travels.Travel(trip.ID)
	if len(stored.ItineraryItems) != 1 || len(stored.LocalTips) != 1 {
		t.Fatalf("unexpected trip %+v", stored)
	}
	// 19:00 in Tokyo is 10:00 UTC.
	if want := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC); !stored.ItineraryItems[0].Date.Equal(want) {
		t.Fatalf("item date %v, want %v", stored.ItineraryItems[0].Date, want)
	}

	res, _ = s.handleCurrentTravel(ctx, request(nil))
	var cur currentTravel
	if err := json.Unmarshal([]byte(text(t, res)), &cur); err != nil {
		t.Fatalf("decode current: %v (%s)", err, text(t, res))
	}
	if cur.Travel.ID != trip.ID || len(cur.Upcoming) != 1 || !strings.HasPrefix(cur.LocalTime, "2025-09-10T18:00:00+09:00") {
		t.Fatalf("unexpected current travel %+v", cur)
	}

	res, _ = s.handleListTravels(ctx, request(map[string]any{"status": "past"}))
	if text(t, res) != "No trips found." {
		t.Fatalf("past: %s", text(t, res))
	}

	res, _ = s.handleStatistics(ctx, request(nil))
	var stats statistics
	if err := json.Unmarshal([]byte(text(t, res)), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Travels.Total != 1 || stats.Travels.Active != 1 {
		t.Fatalf("stats %+v", stats)
	}
}

func TestAddTravelRejectsReturnBeforeDeparture(t *testing.T) {
	s := newServer(t)
	res, _ := s.handleAddTravel(context.Background(), request(map[string]any{
		"destination":    "Paris",
		"departure_date": "2025-10-10T10:00:00Z",
		"return_date":    "2025-10-01T10:00:00Z",
	}))
	if !res.IsError || len(s.travels.Travels()) != 0 {
		t.Fatalf("got %q", text(t, res))
	}
}

func TestUnknownTravel(t *testing.T) {
	s := newServer(t)
	res, _ := s.handleAddLocalTip(context.Background(), request(map[string]any{
		"travel_id": "missing", "title": "x", "content": "y",
	}))
	if !res.IsError || !strings.Contains(text(t, res), "not found") {
		t.Fatalf("got %q", text(t, res))
	}
}
