package model

// TaskStatistics summarizes the task collection.
type TaskStatistics struct {
	Total     int `json:"total_tasks" yaml:"total_tasks"`
	Completed int `json:"completed_tasks" yaml:"completed_tasks"`
	Overdue   int `json:"overdue_tasks" yaml:"overdue_tasks"`
	Upcoming  int `json:"upcoming_tasks" yaml:"upcoming_tasks"`
}

// CompletionRate returns Completed/Total, or 0 for an empty collection.
func (s TaskStatistics) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// TravelStatistics summarizes the travel collection.
type TravelStatistics struct {
	Total    int `json:"total_travels" yaml:"total_travels"`
	Active   int `json:"active_travels" yaml:"active_travels"`
	Upcoming int `json:"upcoming_travels" yaml:"upcoming_travels"`
	Past     int `json:"past_travels" yaml:"past_travels"`
}
