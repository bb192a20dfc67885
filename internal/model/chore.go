package model

import "time"

// Recurrence classifies how often a chore comes due.
type Recurrence string

const (
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceOnce   Recurrence = "once"
)

// Valid reports whether r is a known recurrence class.
func (r Recurrence) Valid() bool {
	return r == RecurrenceDaily || r == RecurrenceWeekly || r == RecurrenceOnce
}

// Chore has exactly one assignee. Its point value is fixed at creation;
// edits replace the whole record.
type Chore struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Points      int        `json:"points"`
	AssignedTo  string     `json:"assigned_to"`
	Recurrence  Recurrence `json:"recurrence"`
	Done        bool       `json:"done"`
	DueDate     string     `json:"due_date,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
