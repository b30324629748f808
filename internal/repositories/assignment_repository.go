package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"fieldservice/internal/models"
)

// AssignmentRepository owns every write that touches both the
// assignments row and the task status. Those pairs are applied in one
// transaction so a reader never sees an assignment without its task
// status update, or vice versa.
type AssignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment, taskStatus models.TaskStatus) error
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	FindByTaskID(ctx context.Context, taskID int64) (*models.Assignment, error)
	FindAll(ctx context.Context) ([]models.Assignment, error)
	Save(ctx context.Context, a *models.Assignment, taskStatus models.TaskStatus) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	Delete(ctx context.Context, id int64, taskStatus models.TaskStatus) error
}

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, task_id, teknisi_id, supervisor_id, assigned_at, started_at, completed_at, notes`

func scanAssignment(row interface{ Scan(...interface{}) error }, a *models.Assignment) error {
	return row.Scan(
		&a.ID, &a.TaskID, &a.TeknisiID, &a.SupervisorID,
		&a.AssignedAt, &a.StartedAt, &a.CompletedAt, &a.Notes,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *assignmentRepository) Create(ctx context.Context, a *models.Assignment, taskStatus models.TaskStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The unique index on task_id closes the check-then-insert race:
	// of two concurrent assigns only one insert commits.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO assignments (task_id, teknisi_id, supervisor_id, assigned_at, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, assigned_at`,
		a.TaskID, a.TeknisiID, a.SupervisorID, a.AssignedAt, a.Notes,
	).Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyAssigned
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`,
		taskStatus, a.TaskID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *assignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	a := &models.Assignment{}
	if err := scanAssignment(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) FindByTaskID(ctx context.Context, taskID int64) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE task_id = $1`
	a := &models.Assignment{}
	if err := scanAssignment(r.db.QueryRowContext(ctx, query, taskID), a); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) FindAll(ctx context.Context) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+assignmentColumns+` FROM assignments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := scanAssignment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Save persists started_at/completed_at/notes and applies the cascaded
// task status in the same transaction.
func (r *assignmentRepository) Save(ctx context.Context, a *models.Assignment, taskStatus models.TaskStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE assignments SET started_at=$1, completed_at=$2, notes=$3
		WHERE id=$4`,
		a.StartedAt, a.CompletedAt, a.Notes, a.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`,
		taskStatus, a.TaskID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *assignmentRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET notes=$1 WHERE id=$2`, notes, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the assignment and resets the task in one transaction.
func (r *assignmentRepository) Delete(ctx context.Context, id int64, taskStatus models.TaskStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var taskID int64
	err = tx.QueryRowContext(ctx,
		`DELETE FROM assignments WHERE id=$1 RETURNING task_id`, id,
	).Scan(&taskID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`,
		taskStatus, taskID,
	); err != nil {
		return err
	}
	return tx.Commit()
}
