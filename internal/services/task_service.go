package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// TaskService owns task CRUD and the role-scoped listing. Status is
// never written here except the explicit terminal close; every other
// status change cascades from the assignment engine.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, actorID int64, role string, filter models.TaskFilter, sortOpt models.TaskSort) ([]models.Task, error)
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error)
	Close(ctx context.Context, id int64) (*models.Task, error)
}

type taskService struct {
	repo        repositories.TaskRepository
	assignments repositories.AssignmentRepository
}

func NewTaskService(repo repositories.TaskRepository, assignments repositories.AssignmentRepository) TaskService {
	return &taskService{repo: repo, assignments: assignments}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Type == "" {
		task.Type = models.TypeVisit
	}
	task.Status = models.StatusPending
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, actorID int64, role string, filter models.TaskFilter, sortOpt models.TaskSort) ([]models.Task, error) {
	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := VisibleTasks(actorID, role, tasks, assignments)
	sortTasks(visible, sortOpt)
	return visible, nil
}

// sortTasks orders in place. priority uses the rank table (urgent >
// high > medium > low), never the lexicographic value. Tasks without a
// deadline sort last regardless of direction.
func sortTasks(tasks []models.Task, opt models.TaskSort) {
	desc := !strings.EqualFold(opt.Order, "asc")

	switch opt.By {
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := models.PriorityRank(tasks[i].Priority), models.PriorityRank(tasks[j].Priority)
			if desc {
				return a > b
			}
			return a < b
		})
	case "deadline":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].Deadline, tasks[j].Deadline
			if a == nil || b == nil {
				// nil-last sits outside the direction swap
				return a != nil && b == nil
			}
			if desc {
				return b.Before(*a)
			}
			return a.Before(*b)
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			if desc {
				return tasks[j].CreatedAt.Before(tasks[i].CreatedAt)
			}
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	}
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updateData.Title != "" {
		existing.Title = updateData.Title
	}
	if updateData.Type != "" {
		existing.Type = updateData.Type
	}
	if updateData.Priority != "" {
		existing.Priority = updateData.Priority
	}
	if updateData.UnitID != nil {
		existing.UnitID = updateData.UnitID
	}
	if updateData.CompanyID != nil {
		existing.CompanyID = updateData.CompanyID
	}
	if updateData.Deadline != nil {
		existing.Deadline = updateData.Deadline
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Close is the explicit terminal override: the status goes to closed
// no matter what the assignment looks like, and stays there.
func (s *taskService) Close(ctx context.Context, id int64) (*models.Task, error) {
	if err := s.repo.UpdateStatus(ctx, id, models.StatusClosed); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
