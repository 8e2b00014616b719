package model

import "time"

// Notification is a pending reminder request held by the local
// notification center until it fires.
type Notification struct {
	// ID is the reminder identifier, e.g. "task_<id>" or "itinerary_<id>".
	// Scheduling a request with an existing ID replaces it.
	ID string `json:"id"`

	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body"`

	// FireAt is when the reminder is delivered.
	FireAt time.Time `json:"fire_at"`

	// Badge is the badge count shown with the reminder.
	Badge int `json:"badge"`

	// CreatedAt is when the request was scheduled.
	CreatedAt time.Time `json:"created_at"`
}

// IsDue reports whether the reminder should fire at now.
func (n Notification) IsDue(now time.Time) bool {
	return !n.FireAt.After(now)
}
