package repositories

import (
	"context"
	"database/sql"

	"fieldservice/internal/models"
)

type WorkSessionRepository interface {
	Store(ctx context.Context, s *models.WorkSession) error
	// FindByUnitAndTeknisi returns the pair's events ordered by
	// scan_time ascending; open-session pairing happens above the repo.
	FindByUnitAndTeknisi(ctx context.Context, unitID, teknisiID int64) ([]models.WorkSession, error)
	FindRecentByUnit(ctx context.Context, unitID int64, limit int) ([]models.WorkSession, error)
}

type workSessionRepository struct {
	db *sql.DB
}

func NewWorkSessionRepository(db *sql.DB) WorkSessionRepository {
	return &workSessionRepository{db: db}
}

const workSessionColumns = `id, unit_id, teknisi_id, session_type, gps_latitude, gps_longitude, notes, scan_time`

func scanWorkSession(row interface{ Scan(...interface{}) error }, s *models.WorkSession) error {
	return row.Scan(
		&s.ID, &s.UnitID, &s.TeknisiID, &s.SessionType,
		&s.GPSLatitude, &s.GPSLongitude, &s.Notes, &s.ScanTime,
	)
}

func (r *workSessionRepository) Store(ctx context.Context, s *models.WorkSession) error {
	query := `
		INSERT INTO work_sessions (unit_id, teknisi_id, session_type, gps_latitude, gps_longitude, notes, scan_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, scan_time`
	return r.db.QueryRowContext(ctx, query,
		s.UnitID, s.TeknisiID, s.SessionType,
		s.GPSLatitude, s.GPSLongitude, s.Notes, s.ScanTime,
	).Scan(&s.ID, &s.ScanTime)
}

func (r *workSessionRepository) FindByUnitAndTeknisi(ctx context.Context, unitID, teknisiID int64) ([]models.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + `
		FROM work_sessions
		WHERE unit_id = $1 AND teknisi_id = $2
		ORDER BY scan_time ASC`
	rows, err := r.db.QueryContext(ctx, query, unitID, teknisiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkSession
	for rows.Next() {
		var s models.WorkSession
		if err := scanWorkSession(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *workSessionRepository) FindRecentByUnit(ctx context.Context, unitID int64, limit int) ([]models.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + `
		FROM work_sessions
		WHERE unit_id = $1
		ORDER BY scan_time DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkSession
	for rows.Next() {
		var s models.WorkSession
		if err := scanWorkSession(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
