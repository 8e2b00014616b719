package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/taskventure/internal/model"
)

func newTaskManager(t *testing.T, opts ...Option) *TaskManager {
	t.Helper()
	g, _ := newGateway(t)
	opts = append([]Option{WithClock(fixedClock), WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewTaskManager(context.Background(), g, opts...)
}

func ptr[T any](v T) *T { return &v }

func TestTaskManager_PayRentScenario(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)

	m.Add(ctx, model.NewTask("Read book", now, model.WithPriority(model.PriorityLow)))
	m.Add(ctx, model.NewTask("Pay rent", now,
		model.WithPriority(model.PriorityUrgent), model.WithDueDate(now.Add(24*time.Hour))))

	m.SetSort(SortPriority)
	if got := titles(m.FilteredTasks()); !equalStrings(got, []string{"Pay rent", "Read book"}) {
		t.Fatalf("priority sort: got %v", got)
	}

	m.SetSort(SortDueDate)
	if got := titles(m.FilteredTasks()); !equalStrings(got, []string{"Pay rent", "Read book"}) {
		t.Fatalf("due date sort: got %v", got)
	}
}

func TestSortTasks(t *testing.T) {
	d := func(h int) model.TaskOption { return model.WithDueDate(now.Add(time.Duration(h) * time.Hour)) }
	base := []model.Task{
		model.NewTask("c-nodue", now.Add(1*time.Minute)),
		model.NewTask("b-due2", now.Add(2*time.Minute), d(2), model.WithPriority(model.PriorityLow)),
		model.NewTask("a-nodue", now.Add(3*time.Minute), model.WithPriority(model.PriorityUrgent)),
		model.NewTask("d-due1", now.Add(4*time.Minute), d(1), model.WithPriority(model.PriorityHigh)),
		model.NewTask("e-due2", now.Add(5*time.Minute), d(2), model.WithPriority(model.PriorityLow)),
	}

	tests := []struct {
		name string
		by   SortOption
		want []string
	}{
		{name: "due date keeps ties and no-due last", by: SortDueDate,
			want: []string{"d-due1", "b-due2", "e-due2", "c-nodue", "a-nodue"}},
		{name: "priority is stable within a rank", by: SortPriority,
			want: []string{"a-nodue", "d-due1", "c-nodue", "b-due2", "e-due2"}},
		{name: "created date descending", by: SortCreatedDate,
			want: []string{"e-due2", "d-due1", "a-nodue", "b-due2", "c-nodue"}},
		{name: "title ascending", by: SortTitle,
			want: []string{"a-nodue", "b-due2", "c-nodue", "d-due1", "e-due2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := append([]model.Task(nil), base...)
			SortTasks(tasks, tt.by)
			if got := titles(tasks); !equalStrings(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterTasks_EquivalentToSinglePass(t *testing.T) {
	tasks := []model.Task{
		model.NewTask("Pay rent", now, model.WithCategory(model.CategoryPersonal), model.WithPriority(model.PriorityUrgent)),
		model.NewTask("Pay invoice", now, model.WithCategory(model.CategoryWork), model.WithPriority(model.PriorityUrgent)),
		model.NewTask("Rent a car", now, model.WithCategory(model.CategoryTravel), model.WithPriority(model.PriorityHigh)),
		model.NewTask("Groceries", now, model.WithDescription("pay at the counter"), model.WithCategory(model.CategoryPersonal), model.WithPriority(model.PriorityUrgent)),
		model.NewTask("Gym", now, model.WithCategory(model.CategoryHealth)),
	}

	filters := []TaskFilter{
		{},
		{Category: ptr(model.CategoryPersonal)},
		{Priority: ptr(model.PriorityUrgent)},
		{SearchText: "PAY"},
		{Category: ptr(model.CategoryPersonal), Priority: ptr(model.PriorityUrgent), SearchText: "pay"},
		{Category: ptr(model.CategoryShopping)},
	}

	for _, f := range filters {
		f.Sort = SortTitle
		got := FilterTasks(tasks, f)

		var want []model.Task
		for _, task := range tasks {
			if (f.Category == nil || task.Category == *f.Category) &&
				(f.Priority == nil || task.Priority == *f.Priority) &&
				task.Matches(f.SearchText) {
				want = append(want, task)
			}
		}
		SortTasks(want, SortTitle)

		if !equalStrings(titles(got), titles(want)) {
			t.Errorf("filter %+v: expected %v, got %v", f, titles(want), titles(got))
		}
	}

	got := FilterTasks(tasks, TaskFilter{Category: ptr(model.CategoryPersonal), Priority: ptr(model.PriorityUrgent), SearchText: "pay", Sort: SortTitle})
	if !equalStrings(titles(got), []string{"Groceries", "Pay rent"}) {
		t.Fatalf("search should match description too, got %v", titles(got))
	}
}

func TestTaskManager_FilterSetters(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)
	for _, task := range SampleTasks(now) {
		m.Add(ctx, task)
	}

	m.SetCategory(ptr(model.CategoryWork))
	if got := titles(m.FilteredTasks()); !equalStrings(got, []string{"Finish quarterly report"}) {
		t.Fatalf("category filter: got %v", got)
	}

	m.SetCategory(nil)
	m.SetSearchText("sushi")
	if got := titles(m.FilteredTasks()); !equalStrings(got, []string{"Book dinner reservation"}) {
		t.Fatalf("search filter: got %v", got)
	}

	m.SetSort(SortPriority)
	m.ClearFilters()
	if f := m.Filter(); f.SearchText != "" || f.Category != nil || f.Priority != nil || f.Sort != SortPriority {
		t.Fatalf("unexpected filter after clear: %+v", f)
	}
	if len(m.FilteredTasks()) != 4 {
		t.Fatalf("expected all tasks visible, got %d", len(m.FilteredTasks()))
	}
}

func TestTaskManager_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)
	task := model.NewTask("Pay rent", now)
	m.Add(ctx, task)

	m.ToggleCompletion(ctx, task)
	got, _ := m.Task(task.ID)
	if !got.IsCompleted {
		t.Fatal("expected completed after one toggle")
	}

	m.ToggleCompletion(ctx, task)
	got, _ = m.Task(task.ID)
	if got.IsCompleted {
		t.Fatal("expected original state after two toggles")
	}
}

func TestTaskManager_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)
	task := model.NewTask("Pay rent", now)
	m.Add(ctx, task)

	stranger := model.NewTask("Not here", now)
	m.Update(ctx, stranger)
	m.ToggleCompletion(ctx, stranger)
	if got := m.Tasks(); len(got) != 1 || got[0].Title != "Pay rent" {
		t.Fatalf("identity miss should be a no-op, got %v", titles(got))
	}

	task.Title = "Pay rent (October)"
	m.Update(ctx, task)
	if got, _ := m.Task(task.ID); got.Title != "Pay rent (October)" {
		t.Fatalf("update not applied: %q", got.Title)
	}

	// Duplicated identities are all removed.
	m.Add(ctx, task)
	m.Delete(ctx, task)
	if len(m.Tasks()) != 0 {
		t.Fatalf("expected empty collection, got %d", len(m.Tasks()))
	}
}

func TestTaskManager_Persistence(t *testing.T) {
	ctx := context.Background()
	g, kv := newGateway(t)

	m := NewTaskManager(ctx, g, WithClock(fixedClock))
	m.Add(ctx, model.NewTask("Pay rent", now))

	reopened := NewTaskManager(ctx, g, WithClock(fixedClock))
	if got := titles(reopened.Tasks()); !equalStrings(got, []string{"Pay rent"}) {
		t.Fatalf("expected persisted task, got %v", got)
	}

	// Failed writes keep in-memory state.
	kv.FailWrites = errors.New("disk full")
	reopened.Add(ctx, model.NewTask("Read book", now))
	if len(reopened.Tasks()) != 2 {
		t.Fatalf("expected 2 in-memory tasks, got %d", len(reopened.Tasks()))
	}

	kv.FailWrites = nil
	reopened.Reload(ctx)
	if len(reopened.Tasks()) != 1 {
		t.Fatalf("reload should return to stored state, got %d", len(reopened.Tasks()))
	}
}

func TestTaskManager_DerivedQueries(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)

	done := model.NewTask("Done", now, model.WithDueDate(now.Add(time.Hour)))
	done.IsCompleted = true
	tokyo := model.ZoneOrLocal("Asia/Tokyo")
	tasks := []model.Task{
		model.NewTask("Late", now, model.WithDueDate(now.Add(-time.Hour))),
		model.NewTask("Soon", now, model.WithDueDate(now.Add(2*time.Hour)), model.WithZone(tokyo)),
		model.NewTask("Now", now, model.WithDueDate(now)),
		model.NewTask("Someday", now),
		model.NewTask("Later", now, model.WithDueDate(now.Add(48*time.Hour))),
		done,
	}
	for _, task := range tasks {
		m.Add(ctx, task)
	}

	if got := titles(m.UpcomingTasks(5)); !equalStrings(got, []string{"Now", "Soon", "Later"}) {
		t.Errorf("upcoming: got %v", got)
	}
	if got := titles(m.UpcomingTasks(2)); !equalStrings(got, []string{"Now", "Soon"}) {
		t.Errorf("upcoming capped: got %v", got)
	}
	if got := titles(m.OverdueTasks()); !equalStrings(got, []string{"Late"}) {
		t.Errorf("overdue: got %v", got)
	}
	if got := titles(m.CompletedTasks()); !equalStrings(got, []string{"Done"}) {
		t.Errorf("completed: got %v", got)
	}
	if got := titles(m.TasksInZone(tokyo)); !equalStrings(got, []string{"Soon"}) {
		t.Errorf("in zone: got %v", got)
	}

	stats := m.Statistics()
	want := model.TaskStatistics{Total: 6, Completed: 1, Overdue: 1, Upcoming: 3}
	if stats != want {
		t.Errorf("statistics: expected %+v, got %+v", want, stats)
	}

	m.ClearCompleted(ctx)
	if len(m.CompletedTasks()) != 0 || len(m.Tasks()) != 5 {
		t.Errorf("clear completed left %d tasks", len(m.Tasks()))
	}
}

func TestTaskManager_Reminders(t *testing.T) {
	ctx := context.Background()
	r := &reminderLog{}
	m := newTaskManager(t, WithTaskReminders(r))

	task := model.NewTask("Pay rent", now, model.WithDueDate(now.Add(24*time.Hour)))
	m.Add(ctx, task)
	id := "task_" + task.ID
	if !contains(r.scheduled, id) || !contains(r.cancelled, id) {
		t.Fatalf("add should cancel then schedule, got %+v", r)
	}

	r.reset()
	m.ToggleCompletion(ctx, task)
	if contains(r.scheduled, id) || !contains(r.cancelled, id) {
		t.Fatalf("completing should only cancel, got %+v", r)
	}

	r.reset()
	m.ToggleCompletion(ctx, task)
	if !contains(r.scheduled, id) {
		t.Fatalf("reopening should reschedule, got %+v", r)
	}

	r.reset()
	noDue := model.NewTask("Read book", now)
	m.Add(ctx, noDue)
	if len(r.scheduled) != 0 {
		t.Fatalf("tasks without a reminder are not scheduled, got %v", r.scheduled)
	}

	r.reset()
	m.Delete(ctx, task)
	if !contains(r.cancelled, id) {
		t.Fatalf("delete should cancel, got %+v", r)
	}
}

func TestTaskManager_Observers(t *testing.T) {
	ctx := context.Background()
	m := newTaskManager(t)

	var events []Event
	unsubscribe := m.Subscribe(func(e Event) {
		// Reading state from an observer must not deadlock.
		_ = m.FilteredTasks()
		events = append(events, e)
	})

	m.Add(ctx, model.NewTask("Pay rent", now))
	m.SetSearchText("rent")
	if len(events) != 2 || events[0].Kind != TasksChanged {
		t.Fatalf("expected 2 task events, got %+v", events)
	}

	unsubscribe()
	m.Add(ctx, model.NewTask("Read book", now))
	if len(events) != 2 {
		t.Fatalf("expected no events after unsubscribe, got %d", len(events))
	}
}

func TestSortOption_Next(t *testing.T) {
	s := SortDueDate
	seen := map[SortOption]bool{}
	for range SortOptions {
		seen[s] = true
		s = s.Next()
	}
	if s != SortDueDate || len(seen) != len(SortOptions) {
		t.Fatalf("Next should cycle through all options, ended at %s with %d seen", s, len(seen))
	}
	if SortCreatedDate.Label() != "Created Date" {
		t.Fatalf("unexpected label %q", SortCreatedDate.Label())
	}
}
