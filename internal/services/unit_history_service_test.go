package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

type fakeUnitRepo struct {
	unit        *models.Unit
	workHistory []models.WorkHistory
	accessLogs  []models.AccessLog
	maintenance []models.MaintenanceSchedule
	parts       []models.PartsReplacement

	maintenanceErr error
	accessInserts  []models.AccessLog
}

func capped[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func (r *fakeUnitRepo) FindByID(_ context.Context, id int64) (*models.Unit, error) {
	if r.unit == nil || r.unit.ID != id {
		return nil, repositories.ErrNotFound
	}
	return r.unit, nil
}

func (r *fakeUnitRepo) InsertAccessLog(_ context.Context, l *models.AccessLog) error {
	r.accessInserts = append(r.accessInserts, *l)
	return nil
}

func (r *fakeUnitRepo) ListWorkHistory(_ context.Context, _ int64, limit int) ([]models.WorkHistory, error) {
	return capped(r.workHistory, limit), nil
}

func (r *fakeUnitRepo) ListAccessLogs(_ context.Context, _ int64, limit int) ([]models.AccessLog, error) {
	return capped(r.accessLogs, limit), nil
}

func (r *fakeUnitRepo) ListMaintenance(_ context.Context, _ int64, limit int) ([]models.MaintenanceSchedule, error) {
	if r.maintenanceErr != nil {
		return nil, r.maintenanceErr
	}
	return capped(r.maintenance, limit), nil
}

func (r *fakeUnitRepo) ListPartsReplacements(_ context.Context, _ int64, limit int) ([]models.PartsReplacement, error) {
	return capped(r.parts, limit), nil
}

func TestHistoryGlobalTruncation(t *testing.T) {
	clock := newClock()

	// Interleaved dates across two sources; the top 4 overall must win,
	// not the top 4 of either source.
	repo := &fakeUnitRepo{
		workHistory: []models.WorkHistory{
			{ID: 1, UnitID: 1, TeknisiID: 2, WorkDate: ts(clock, 50), Description: "w50"},
			{ID: 2, UnitID: 1, TeknisiID: 2, WorkDate: ts(clock, 30), Description: "w30"},
			{ID: 3, UnitID: 1, TeknisiID: 2, WorkDate: ts(clock, 10), Description: "w10"},
		},
		maintenance: []models.MaintenanceSchedule{
			{ID: 4, UnitID: 1, ScheduledDate: ts(clock, 60), Description: "m60"},
			{ID: 5, UnitID: 1, ScheduledDate: ts(clock, 40), Description: "m40"},
		},
	}
	svc := NewUnitHistoryService(repo, &fakeWorkSessionRepo{})

	entries, err := svc.History(context.Background(), 1, "", 4)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	got := make([]string, 0, 4)
	for _, e := range entries {
		got = append(got, e.Description)
	}
	assert.Equal(t, []string{"m60", "w50", "m40", "w30"}, got)
}

func TestHistoryTieBreakIsSourceOrder(t *testing.T) {
	clock := newClock()
	same := ts(clock, 0)

	repo := &fakeUnitRepo{
		workHistory: []models.WorkHistory{
			{ID: 1, UnitID: 1, WorkDate: same, Description: "from work history"},
		},
		maintenance: []models.MaintenanceSchedule{
			{ID: 2, UnitID: 1, ScheduledDate: same, Description: "from maintenance"},
		},
	}
	svc := NewUnitHistoryService(repo, &fakeWorkSessionRepo{})

	entries, err := svc.History(context.Background(), 1, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// work history is fetched before maintenance; the stable sort keeps
	// that order for equal dates.
	assert.Equal(t, models.HistoryWorkHistory, entries[0].Type)
	assert.Equal(t, models.HistoryMaintenance, entries[1].Type)
}

func TestHistoryTypeFilter(t *testing.T) {
	clock := newClock()
	repo := &fakeUnitRepo{
		workHistory: []models.WorkHistory{
			{ID: 1, UnitID: 1, WorkDate: ts(clock, 10)},
		},
		parts: []models.PartsReplacement{
			{ID: 2, UnitID: 1, PartName: "belt", ReplacementDate: ts(clock, 20)},
		},
	}
	svc := NewUnitHistoryService(repo, &fakeWorkSessionRepo{})

	entries, err := svc.History(context.Background(), 1, models.HistoryPartsReplacement, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryPartsReplacement, entries[0].Type)
	assert.Equal(t, "Replaced part: belt", entries[0].Description)
	assert.Equal(t, "belt", entries[0].PartName)
}

func TestHistorySourceErrorAbortsAggregation(t *testing.T) {
	repo := &fakeUnitRepo{maintenanceErr: errors.New("connection reset")}
	svc := NewUnitHistoryService(repo, &fakeWorkSessionRepo{})

	_, err := svc.History(context.Background(), 1, "", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestHistoryIncludesWorkSessions(t *testing.T) {
	clock := newClock()
	sessions := &fakeWorkSessionRepo{sessions: []models.WorkSession{
		{ID: 7, UnitID: 1, TeknisiID: 3, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 5)},
	}}
	svc := NewUnitHistoryService(&fakeUnitRepo{}, sessions)

	entries, err := svc.History(context.Background(), 1, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryWorkSession, entries[0].Type)
	assert.Equal(t, "work_start", entries[0].SessionType)
	require.NotNil(t, entries[0].TeknisiID)
	assert.Equal(t, int64(3), *entries[0].TeknisiID)
}
