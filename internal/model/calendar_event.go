package model

import "time"

type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	MemberID  string    `json:"member_id,omitempty"`
}
