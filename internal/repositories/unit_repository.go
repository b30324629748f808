package repositories

import (
	"context"
	"database/sql"

	"fieldservice/internal/models"
)

// UnitRepository covers unit lookup plus the per-unit event logs the
// history aggregator reads. Every List* fetch is capped at limit rows
// ordered most-recent-first; the global merge happens in the service.
type UnitRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Unit, error)
	InsertAccessLog(ctx context.Context, l *models.AccessLog) error

	ListWorkHistory(ctx context.Context, unitID int64, limit int) ([]models.WorkHistory, error)
	ListAccessLogs(ctx context.Context, unitID int64, limit int) ([]models.AccessLog, error)
	ListMaintenance(ctx context.Context, unitID int64, limit int) ([]models.MaintenanceSchedule, error)
	ListPartsReplacements(ctx context.Context, unitID int64, limit int) ([]models.PartsReplacement, error)
}

type unitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) FindByID(ctx context.Context, id int64) (*models.Unit, error) {
	query := `SELECT id, company_id, name, serial_number, location, created_at
		FROM units WHERE id = $1`
	u := &models.Unit{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.CompanyID, &u.Name, &u.SerialNumber, &u.Location, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *unitRepository) InsertAccessLog(ctx context.Context, l *models.AccessLog) error {
	query := `
		INSERT INTO access_logs (unit_id, user_id, access_type, accessed_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		l.UnitID, l.UserID, l.AccessType, l.AccessedAt,
	).Scan(&l.ID)
}

func (r *unitRepository) ListWorkHistory(ctx context.Context, unitID int64, limit int) ([]models.WorkHistory, error) {
	query := `SELECT id, unit_id, teknisi_id, work_date, description, photo_url
		FROM work_history
		WHERE unit_id = $1
		ORDER BY work_date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkHistory
	for rows.Next() {
		var h models.WorkHistory
		if err := rows.Scan(&h.ID, &h.UnitID, &h.TeknisiID, &h.WorkDate, &h.Description, &h.PhotoURL); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *unitRepository) ListAccessLogs(ctx context.Context, unitID int64, limit int) ([]models.AccessLog, error) {
	query := `SELECT id, unit_id, user_id, access_type, accessed_at
		FROM access_logs
		WHERE unit_id = $1
		ORDER BY accessed_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AccessLog
	for rows.Next() {
		var l models.AccessLog
		if err := rows.Scan(&l.ID, &l.UnitID, &l.UserID, &l.AccessType, &l.AccessedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *unitRepository) ListMaintenance(ctx context.Context, unitID int64, limit int) ([]models.MaintenanceSchedule, error) {
	query := `SELECT id, unit_id, maintenance_type, description, scheduled_date, status
		FROM maintenance_schedules
		WHERE unit_id = $1
		ORDER BY scheduled_date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MaintenanceSchedule
	for rows.Next() {
		var m models.MaintenanceSchedule
		if err := rows.Scan(&m.ID, &m.UnitID, &m.MaintenanceType, &m.Description, &m.ScheduledDate, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *unitRepository) ListPartsReplacements(ctx context.Context, unitID int64, limit int) ([]models.PartsReplacement, error) {
	query := `SELECT id, unit_id, teknisi_id, part_name, replacement_date, notes
		FROM parts_replacements
		WHERE unit_id = $1
		ORDER BY replacement_date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PartsReplacement
	for rows.Next() {
		var p models.PartsReplacement
		if err := rows.Scan(&p.ID, &p.UnitID, &p.TeknisiID, &p.PartName, &p.ReplacementDate, &p.Notes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
