package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTaskIsOverdue(t *testing.T) {
	today := date(2025, 6, 15)
	yesterday := date(2025, 6, 14)
	tomorrow := date(2025, 6, 16)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  TaskStatus
		want    bool
	}{
		{"past due and open", &yesterday, TaskStatusTodo, true},
		{"past due in progress", &yesterday, TaskStatusInProgress, true},
		{"past due in review", &yesterday, TaskStatusInReview, true},
		{"past due but completed", &yesterday, TaskStatusCompleted, false},
		{"past due but cancelled", &yesterday, TaskStatusCancelled, false},
		{"due today", &today, TaskStatusTodo, false},
		{"due tomorrow", &tomorrow, TaskStatusTodo, false},
		{"no due date", nil, TaskStatusTodo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.dueDate, Status: tt.status}
			if got := task.IsOverdue(today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectIsOverdue(t *testing.T) {
	today := date(2025, 6, 15)
	yesterday := date(2025, 6, 14)

	tests := []struct {
		name    string
		endDate *time.Time
		status  ProjectStatus
		want    bool
	}{
		{"past end date while planning", &yesterday, ProjectStatusPlanning, true},
		{"past end date while in progress", &yesterday, ProjectStatusInProgress, true},
		{"past end date but completed", &yesterday, ProjectStatusCompleted, false},
		{"past end date but archived", &yesterday, ProjectStatusArchived, false},
		{"end date today", &today, ProjectStatusInProgress, false},
		{"no end date", nil, ProjectStatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{EndDate: tt.endDate, Status: tt.status}
			if got := p.IsOverdue(today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
