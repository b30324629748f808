package models

import "time"

// Assignment binds one task to one technician under one supervisor.
// A task has at most one assignment at any time (unique index on task_id).
type Assignment struct {
	ID           int64      `json:"id"`
	TaskID       int64      `json:"task_id"`
	TeknisiID    int64      `json:"teknisi_id"`
	SupervisorID int64      `json:"supervisor_id"`
	AssignedAt   time.Time  `json:"assigned_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Notes        string     `json:"notes"` // append-only log style
}
