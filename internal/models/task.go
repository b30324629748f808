package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusAssigned   TaskStatus = "assigned"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusClosed     TaskStatus = "closed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// PriorityRank orders priorities for sorting: urgent > high > medium > low.
func PriorityRank(p TaskPriority) int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type TaskType string

const (
	TypeVisit    TaskType = "visit"
	TypeMinor    TaskType = "minor"
	TypeMajor    TaskType = "major"
	TypeContract TaskType = "contract"
)

// Task represents a unit of field work.
type Task struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Type      TaskType     `json:"type"`
	Priority  TaskPriority `json:"priority"`
	Status    TaskStatus   `json:"status"`
	UnitID    *int64       `json:"unit_id,omitempty"`
	CompanyID *int64       `json:"company_id,omitempty"`
	Deadline  *time.Time   `json:"deadline,omitempty"`
	CreatorID int64        `json:"creator_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
// Sorting happens in the service after the visibility filter.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Type     *TaskType
	UnitID   *int64
	Search   *string
}

type TaskSort struct {
	By    string // priority | deadline | created_at
	Order string // asc | desc
}
