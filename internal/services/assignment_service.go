package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// AssignmentService is the work-order state machine. Every mutation
// re-derives the task status through deriveStatus and hands both
// writes to the repository, which applies them in one transaction.
// A closed task is terminal: every lifecycle action against it is
// refused so the derived status can never overwrite the override.
type AssignmentService interface {
	Assign(ctx context.Context, taskID, teknisiID, supervisorID int64, notes string) (*models.Assignment, error)
	Start(ctx context.Context, id int64) (*models.Assignment, error)
	Complete(ctx context.Context, id int64, notes string) (*models.Assignment, error)
	UpdateNotes(ctx context.Context, id int64, notes string) (*models.Assignment, error)
	EditFields(ctx context.Context, id int64, notes *string, startedAt, completedAt *time.Time) (*models.Assignment, error)
	Unassign(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	GetByTaskID(ctx context.Context, taskID int64) (*models.Assignment, error)
}

type assignmentService struct {
	repo  repositories.AssignmentRepository
	tasks repositories.TaskRepository
}

func NewAssignmentService(repo repositories.AssignmentRepository, tasks repositories.TaskRepository) AssignmentService {
	return &assignmentService{repo: repo, tasks: tasks}
}

// appendNote grows the append-only note log; earlier notes are never
// overwritten.
func appendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	stamped := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04"), note)
	if existing == "" {
		return stamped
	}
	return existing + "\n" + stamped
}

func (s *assignmentService) ensureTaskOpen(ctx context.Context, taskID int64) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status == models.StatusClosed {
		return ErrTaskClosed
	}
	return nil
}

func (s *assignmentService) Assign(ctx context.Context, taskID, teknisiID, supervisorID int64, notes string) (*models.Assignment, error) {
	if err := s.ensureTaskOpen(ctx, taskID); err != nil {
		return nil, err
	}

	a := &models.Assignment{
		TaskID:       taskID,
		TeknisiID:    teknisiID,
		SupervisorID: supervisorID,
		AssignedAt:   time.Now(),
		Notes:        appendNote("", notes),
	}
	// The existence check lives inside the repository transaction: the
	// unique index makes concurrent assigns safe to retry.
	if err := s.repo.Create(ctx, a, deriveStatus(a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) Start(ctx context.Context, id int64) (*models.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTaskOpen(ctx, a.TaskID); err != nil {
		return nil, err
	}
	if a.StartedAt != nil {
		return nil, ErrAlreadyStarted
	}

	now := time.Now()
	a.StartedAt = &now
	a.Notes = appendNote(a.Notes, "work started")

	if err := s.repo.Save(ctx, a, deriveStatus(a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) Complete(ctx context.Context, id int64, notes string) (*models.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTaskOpen(ctx, a.TaskID); err != nil {
		return nil, err
	}

	// A repeat complete keeps the original completion time and only
	// grows the note log.
	if a.CompletedAt == nil {
		now := time.Now()
		a.CompletedAt = &now
	}
	a.Notes = appendNote(a.Notes, notes)

	if err := s.repo.Save(ctx, a, deriveStatus(a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) UpdateNotes(ctx context.Context, id int64, notes string) (*models.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Notes = appendNote(a.Notes, notes)

	// Notes alone never touch timestamps or the task status.
	if err := s.repo.UpdateNotes(ctx, id, a.Notes); err != nil {
		return nil, err
	}
	return a, nil
}

// EditFields applies direct timestamp edits and cascades the re-derived
// task status, for supervisors fixing up records after the fact.
func (s *assignmentService) EditFields(ctx context.Context, id int64, notes *string, startedAt, completedAt *time.Time) (*models.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTaskOpen(ctx, a.TaskID); err != nil {
		return nil, err
	}

	if notes != nil {
		a.Notes = appendNote(a.Notes, *notes)
	}
	if startedAt != nil {
		a.StartedAt = startedAt
	}
	if completedAt != nil {
		a.CompletedAt = completedAt
	}

	if err := s.repo.Save(ctx, a, deriveStatus(a)); err != nil {
		return nil, err
	}
	return a, nil
}

// Unassign refuses closed tasks too: the pending reset would undo the
// terminal override.
func (s *assignmentService) Unassign(ctx context.Context, id int64) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureTaskOpen(ctx, a.TaskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, deriveStatus(nil))
}

func (s *assignmentService) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *assignmentService) GetByTaskID(ctx context.Context, taskID int64) (*models.Assignment, error) {
	return s.repo.FindByTaskID(ctx, taskID)
}
