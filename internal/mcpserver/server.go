// Package mcpserver exposes the task and travel managers as MCP tools over
// stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/validation"
	"github.com/nhle/taskventure/internal/viewmodel"
)

const (
	serverName    = "taskventure"
	serverVersion = "1.0.0"

	// localDateTime is accepted next to RFC3339 and read in the entity's zone.
	localDateTime = "2006-01-02 15:04"

	defaultUpcomingLimit = 5
)

// Server is the MCP server for tasks and trips.
type Server struct {
	mcpServer *server.MCPServer
	tasks     *viewmodel.TaskManager
	travels   *viewmodel.TravelManager
	logger    *zap.Logger
	now       func() time.Time
}

// NewServer creates an MCP server backed by the given managers.
func NewServer(tasks *viewmodel.TaskManager, travels *viewmodel.TravelManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		tasks:   tasks,
		travels: travels,
		logger:  logger,
		now:     time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// WithClock overrides the source of "now" used for derived views.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve runs the server on stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// tasks
	s.mcpServer.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Add a task with an optional due date, priority, category and time zone"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("description", mcp.Description("Optional details")),
			mcp.WithString("priority", mcp.Description("low, medium, high or urgent (default: medium)")),
			mcp.WithString("category", mcp.Description("personal, work, travel, health, shopping or other (default: personal)")),
			mcp.WithString("time_zone", mcp.Description("IANA zone the dates are given in (default: local)")),
			mcp.WithString("due_date", mcp.Description("RFC3339 or YYYY-MM-DD HH:MM in time_zone")),
			mcp.WithString("reminder", mcp.Description("Reminder time, same formats as due_date (default: the due date)")),
		),
		s.handleAddTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks, optionally filtered by category, priority or a search text"),
			mcp.WithString("category", mcp.Description("Only tasks in this category")),
			mcp.WithString("priority", mcp.Description("Only tasks with this priority")),
			mcp.WithString("search", mcp.Description("Case-insensitive match on title or description")),
			mcp.WithString("sort", mcp.Description("due_date, priority, created_date or title (default: due_date)")),
		),
		s.handleListTasks,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_task",
			mcp.WithDescription("Flip the completion state of a task"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleToggleTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_task",
			mcp.WithDescription("Delete a task and cancel its reminder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleDeleteTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("upcoming_tasks",
			mcp.WithDescription("Incomplete tasks due from now on, soonest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of tasks (default: 5)")),
		),
		s.handleUpcomingTasks,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("overdue_tasks",
			mcp.WithDescription("Incomplete tasks whose due date has passed"),
		),
		s.handleOverdueTasks,
	)

	// travel
	s.mcpServer.AddTool(
		mcp.NewTool("add_travel",
			mcp.WithDescription("Plan a trip"),
			mcp.WithString("destination", mcp.Required(), mcp.Description("Where to")),
			mcp.WithString("departure_date", mcp.Required(), mcp.Description("RFC3339 or YYYY-MM-DD HH:MM in time_zone")),
			mcp.WithString("return_date", mcp.Description("Optional, same formats as departure_date")),
			mcp.WithString("time_zone", mcp.Description("IANA zone of the destination (default: local)")),
			mcp.WithString("flight_number", mcp.Description("Optional flight number")),
			mcp.WithString("accommodation", mcp.Description("Optional accommodation")),
			mcp.WithString("notes", mcp.Description("Optional notes")),
			mcp.WithBoolean("active", mcp.Description("Mark the trip active (default: false)")),
		),
		s.handleAddTravel,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_travels",
			mcp.WithDescription("List trips, optionally only active, upcoming or past ones"),
			mcp.WithString("status", mcp.Description("active, upcoming, past, or empty for all")),
		),
		s.handleListTravels,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_itinerary_item",
			mcp.WithDescription("Add an itinerary item to a trip"),
			mcp.WithString("travel_id", mcp.Required(), mcp.Description("Trip ID")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("RFC3339 or YYYY-MM-DD HH:MM in the trip's zone")),
			mcp.WithString("type", mcp.Description("flight, accommodation, activity, meeting, dining or transportation (default: activity)")),
			mcp.WithString("location", mcp.Description("Optional location")),
			mcp.WithString("description", mcp.Description("Optional details")),
		),
		s.handleAddItineraryItem,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_local_tip",
			mcp.WithDescription("Add a local tip to a trip"),
			mcp.WithString("travel_id", mcp.Required(), mcp.Description("Trip ID")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Tip title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("The tip itself")),
			mcp.WithString("category", mcp.Description("general, food, transportation, culture, safety or shopping (default: general)")),
		),
		s.handleAddLocalTip,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("current_travel",
			mcp.WithDescription("The trip in progress, with its local time and upcoming itinerary"),
		),
		s.handleCurrentTravel,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("statistics",
			mcp.WithDescription("Task and travel counts"),
		),
		s.handleStatistics,
	)
}

func (s *Server) handleAddTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := validation.TaskInput{
		Title:    validation.SanitizeText(req.GetString("title", "")),
		Priority: strings.ToLower(req.GetString("priority", "")),
		Category: strings.ToLower(req.GetString("category", "")),
		Zone:     zoneName(req.GetString("time_zone", "")),
	}
	if err := validation.Struct(in); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	zone := model.ZoneOrLocal(in.Zone)
	opts := []model.TaskOption{
		model.WithDescription(validation.SanitizeText(req.GetString("description", ""))),
		model.WithZone(zone),
	}
	if in.Priority != "" {
		opts = append(opts, model.WithPriority(model.Priority(in.Priority)))
	}
	if in.Category != "" {
		opts = append(opts, model.WithCategory(model.Category(in.Category)))
	}

	due, err := parseTime(req.GetString("due_date", ""), zone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid due_date: %v", err)), nil
	}
	if due != nil {
		opts = append(opts, model.WithDueDate(*due))
	}

	task := model.NewTask(in.Title, s.now(), opts...)

	reminder, err := parseTime(req.GetString("reminder", ""), zone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid reminder: %v", err)), nil
	}
	if reminder != nil {
		if task.DueDate == nil {
			return mcp.NewToolResultError("reminder needs a due_date"), nil
		}
		task.ReminderTime = reminder
	}

	s.tasks.Add(context.Background(), task)
	s.logger.Info("task added", zap.String("task_id", task.ID))
	return jsonResult(task)
}

func (s *Server) handleListTasks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f viewmodel.TaskFilter
	if v := strings.ToLower(req.GetString("category", "")); v != "" {
		if err := validation.ValidateCategory(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		c := model.Category(v)
		f.Category = &c
	}
	if v := strings.ToLower(req.GetString("priority", "")); v != "" {
		if err := validation.ValidatePriority(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p := model.Priority(v)
		f.Priority = &p
	}
	f.SearchText = req.GetString("search", "")

	sortBy, ok := parseSort(req.GetString("sort", ""))
	if !ok {
		return mcp.NewToolResultError("sort must be due_date, priority, created_date or title"), nil
	}

	tasks := viewmodel.FilterTasks(s.tasks.Tasks(), f)
	viewmodel.SortTasks(tasks, sortBy)
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}
	return jsonResult(tasks)
}

func (s *Server) handleToggleTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, res := s.lookupTask(req)
	if res != nil {
		return res, nil
	}
	s.tasks.ToggleCompletion(context.Background(), task)
	updated, _ := s.tasks.Task(task.ID)
	return jsonResult(updated)
}

func (s *Server) handleDeleteTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, res := s.lookupTask(req)
	if res != nil {
		return res, nil
	}
	s.tasks.Delete(context.Background(), task)
	return mcp.NewToolResultText(fmt.Sprintf("Task %q deleted.", task.Title)), nil
}

func (s *Server) handleUpcomingTasks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", defaultUpcomingLimit))
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be a positive number"), nil
	}
	tasks := s.tasks.UpcomingTasks(limit)
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No upcoming tasks."), nil
	}
	return jsonResult(tasks)
}

func (s *Server) handleOverdueTasks(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks := s.tasks.OverdueTasks()
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No overdue tasks."), nil
	}
	return jsonResult(tasks)
}

func (s *Server) handleAddTravel(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := validation.TravelInput{
		Destination: validation.SanitizeText(req.GetString("destination", "")),
		Zone:        zoneName(req.GetString("time_zone", "")),
	}
	if err := validation.Struct(in); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	zone := model.ZoneOrLocal(in.Zone)

	departure, err := parseTime(req.GetString("departure_date", ""), zone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid departure_date: %v", err)), nil
	}
	if departure == nil {
		return mcp.NewToolResultError("departure_date is required"), nil
	}
	ret, err := parseTime(req.GetString("return_date", ""), zone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid return_date: %v", err)), nil
	}
	if ret != nil && ret.Before(*departure) {
		return mcp.NewToolResultError("return_date is before departure_date"), nil
	}

	t := model.NewTravel(in.Destination, *departure, ret, zone)
	t.FlightNumber = model.StringPtr(validation.SanitizeText(req.GetString("flight_number", "")))
	t.Accommodation = model.StringPtr(validation.SanitizeText(req.GetString("accommodation", "")))
	t.Notes = validation.SanitizeText(req.GetString("notes", ""))
	t.IsActive = req.GetBool("active", false)

	s.travels.Add(context.Background(), t)
	s.logger.Info("trip added", zap.String("travel_id", t.ID))
	return jsonResult(t)
}

func (s *Server) handleListTravels(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var travels []model.Travel
	switch status := strings.ToLower(req.GetString("status", "")); status {
	case "":
		travels = s.travels.Travels()
	case "active":
		travels = s.travels.ActiveTravels()
	case "upcoming":
		travels = s.travels.UpcomingTravels()
	case "past":
		travels = s.travels.PastTravels()
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
	}
	if len(travels) == 0 {
		return mcp.NewToolResultText("No trips found."), nil
	}
	return jsonResult(travels)
}

func (s *Server) handleAddItineraryItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, res := s.lookupTravel(req)
	if res != nil {
		return res, nil
	}
	in := validation.ItineraryInput{
		Title: validation.SanitizeText(req.GetString("title", "")),
		Type:  strings.ToLower(req.GetString("type", "")),
	}
	if err := validation.Struct(in); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := parseTime(req.GetString("date", ""), t.LocalTimeZone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}
	if date == nil {
		return mcp.NewToolResultError("date is required"), nil
	}

	item := model.NewItineraryItem(in.Title,
		validation.SanitizeText(req.GetString("description", "")),
		*date,
		model.StringPtr(validation.SanitizeText(req.GetString("location", ""))),
		model.ItineraryType(in.Type))
	s.travels.AddItineraryItem(context.Background(), item, t.ID)
	return jsonResult(item)
}

func (s *Server) handleAddLocalTip(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, res := s.lookupTravel(req)
	if res != nil {
		return res, nil
	}
	in := validation.TipInput{
		Title:    validation.SanitizeText(req.GetString("title", "")),
		Content:  validation.SanitizeText(req.GetString("content", "")),
		Category: strings.ToLower(req.GetString("category", "")),
	}
	if err := validation.Struct(in); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tip := model.NewLocalTip(in.Title, in.Content, model.TipCategory(in.Category))
	s.travels.AddLocalTip(context.Background(), tip, t.ID)
	return jsonResult(tip)
}

// currentTravel is the current_travel result.
type currentTravel struct {
	Travel    model.Travel          `json:"travel"`
	LocalTime string                `json:"local_time"`
	Upcoming  []model.ItineraryItem `json:"upcoming_itinerary"`
}

func (s *Server) handleCurrentTravel(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, ok := s.travels.CurrentTravel()
	if !ok {
		return mcp.NewToolResultText("No trip in progress."), nil
	}
	return jsonResult(currentTravel{
		Travel:    t,
		LocalTime: t.LocalTime(s.now()).Format(time.RFC3339),
		Upcoming:  s.travels.UpcomingItinerary(t.ID, defaultUpcomingLimit),
	})
}

// statistics is the statistics result.
type statistics struct {
	Tasks          model.TaskStatistics   `json:"tasks"`
	CompletionRate float64                `json:"completion_rate"`
	Travels        model.TravelStatistics `json:"travels"`
}

func (s *Server) handleStatistics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts := s.tasks.Statistics()
	return jsonResult(statistics{
		Tasks:          ts,
		CompletionRate: ts.CompletionRate(),
		Travels:        s.travels.Statistics(),
	})
}

func (s *Server) lookupTask(req mcp.CallToolRequest) (model.Task, *mcp.CallToolResult) {
	id := req.GetString("id", "")
	if id == "" {
		return model.Task{}, mcp.NewToolResultError("id is required")
	}
	task, ok := s.tasks.Task(id)
	if !ok {
		return model.Task{}, mcp.NewToolResultError(fmt.Sprintf("task %s not found", id))
	}
	return task, nil
}

func (s *Server) lookupTravel(req mcp.CallToolRequest) (model.Travel, *mcp.CallToolResult) {
	id := req.GetString("travel_id", "")
	if id == "" {
		return model.Travel{}, mcp.NewToolResultError("travel_id is required")
	}
	t, ok := s.travels.Travel(id)
	if !ok {
		return model.Travel{}, mcp.NewToolResultError(fmt.Sprintf("trip %s not found", id))
	}
	return t, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(output)), nil
}

// zoneName maps "local" and blank input to the process-local zone.
func zoneName(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "local") {
		return ""
	}
	return s
}

// parseTime reads RFC3339, or a wall-clock time in zone. Blank input
// yields nil.
func parseTime(s string, zone model.Zone) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(localDateTime, s, zone.Location())
	if err != nil {
		return nil, fmt.Errorf("use RFC3339 or %s", localDateTime)
	}
	return &t, nil
}

func parseSort(s string) (viewmodel.SortOption, bool) {
	if s == "" {
		return viewmodel.SortDueDate, true
	}
	for _, o := range viewmodel.SortOptions {
		if string(o) == strings.ToLower(s) {
			return o, true
		}
	}
	return "", false
}
