package chore

import (
	"testing"
	"time"

	"github.com/hearthside/hearth/internal/model"
)

var today = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC) // a Tuesday

func TestComputeStatusCompleted(t *testing.T) {
	c := model.Chore{Done: true, DueDate: "2026-03-01"}
	if got := ComputeStatus(c, today); got != StatusCompleted {
		t.Errorf("status = %s, want %s", got, StatusCompleted)
	}
}

func TestComputeStatusPendingNoDueDate(t *testing.T) {
	c := model.Chore{Done: false}
	if got := ComputeStatus(c, today); got != StatusPending {
		t.Errorf("status = %s, want %s", got, StatusPending)
	}
}

func TestComputeStatusOverdue(t *testing.T) {
	c := model.Chore{Done: false, DueDate: "2026-03-09"}
	if got := ComputeStatus(c, today); got != StatusOverdue {
		t.Errorf("status = %s, want %s", got, StatusOverdue)
	}
}

func TestComputeStatusDueToday(t *testing.T) {
	c := model.Chore{Done: false, DueDate: "2026-03-10"}
	if got := ComputeStatus(c, today); got != StatusPending {
		t.Errorf("status = %s, want %s", got, StatusPending)
	}
}

func TestComputeStatusBadDueDate(t *testing.T) {
	c := model.Chore{Done: false, DueDate: "next tuesday"}
	if got := ComputeStatus(c, today); got != StatusPending {
		t.Errorf("status = %s, want %s", got, StatusPending)
	}
}

func TestResetsOn(t *testing.T) {
	daily := model.Chore{Recurrence: model.RecurrenceDaily}
	weekly := model.Chore{Recurrence: model.RecurrenceWeekly}
	once := model.Chore{Recurrence: model.RecurrenceOnce}

	if !ResetsOn(daily, time.Wednesday) {
		t.Error("daily chore should reset every day")
	}
	if ResetsOn(weekly, time.Wednesday) {
		t.Error("weekly chore should not reset midweek")
	}
	if !ResetsOn(weekly, time.Monday) {
		t.Error("weekly chore should reset on Monday")
	}
	if ResetsOn(once, time.Monday) {
		t.Error("one-off chore should never reset")
	}
}

func TestDueToday(t *testing.T) {
	daily := model.Chore{Recurrence: model.RecurrenceDaily, DueDate: "2026-04-01"}
	if !DueToday(daily, today) {
		t.Error("daily chore is always due")
	}

	future := model.Chore{Recurrence: model.RecurrenceOnce, DueDate: "2026-04-01"}
	if DueToday(future, today) {
		t.Error("future one-off chore should not be due today")
	}

	past := model.Chore{Recurrence: model.RecurrenceOnce, DueDate: "2026-03-01"}
	if !DueToday(past, today) {
		t.Error("past-due one-off chore should still be listed")
	}
}
