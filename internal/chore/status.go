// Package chore derives display status for chores from their recurrence
// class, due date, and done flag.
package chore

import (
	"time"

	"github.com/hearthside/hearth/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

const dateLayout = "2006-01-02"

// ComputeStatus determines a chore's status for the given day. A chore
// with its done flag set is completed. An incomplete chore is overdue
// when its due date has passed; due dates that fail to parse are
// ignored, leaving the chore pending.
func ComputeStatus(c model.Chore, today time.Time) Status {
	if c.Done {
		return StatusCompleted
	}
	if c.DueDate == "" {
		return StatusPending
	}
	due, err := time.ParseInLocation(dateLayout, c.DueDate, today.Location())
	if err != nil {
		return StatusPending
	}
	if startOfDay(due).Before(startOfDay(today)) {
		return StatusOverdue
	}
	return StatusPending
}

// ResetsOn reports whether a completed chore's done flag should clear at
// the start of the given weekday: daily chores reset every day, weekly
// chores when the week turns over on Monday, one-off chores never.
func ResetsOn(c model.Chore, weekday time.Weekday) bool {
	switch c.Recurrence {
	case model.RecurrenceDaily:
		return true
	case model.RecurrenceWeekly:
		return weekday == time.Monday
	default:
		return false
	}
}

// DueToday reports whether a chore should appear on today's list: daily
// chores always, weekly and one-off chores when their due date is today
// or unset.
func DueToday(c model.Chore, today time.Time) bool {
	if c.Recurrence == model.RecurrenceDaily {
		return true
	}
	if c.DueDate == "" {
		return true
	}
	due, err := time.ParseInLocation(dateLayout, c.DueDate, today.Location())
	if err != nil {
		return true
	}
	return !startOfDay(due).After(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
