package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fieldservice/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, type, priority, status, unit_id, company_id, deadline, creator_id, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }, t *models.Task) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Type, &t.Priority, &t.Status,
		&t.UnitID, &t.CompanyID, &t.Deadline, &t.CreatorID,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			title, type, priority, status, unit_id, company_id,
			deadline, creator_id, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Type, task.Priority, task.Status,
		task.UnitID, task.CompanyID, task.Deadline, task.CreatorID,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, id), task)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if filter.UnitID != nil {
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", argID))
		args = append(args, *filter.UnitID)
		argID++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argID))
		args = append(args, "%"+*filter.Search+"%")
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, type=$2, priority=$3, unit_id=$4, company_id=$5,
			deadline=$6, updated_at=$7
		WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Type, task.Priority, task.UnitID, task.CompanyID,
		task.Deadline, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
