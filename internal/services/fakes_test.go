package services

import (
	"context"
	"sort"
	"time"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// In-memory repository fakes. They mirror the transactional contract:
// assignment writes apply the cascaded task status in the same call.

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, to models.TaskStatus) error {
	t, ok := r.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Status = to
	return nil
}

type fakeAssignmentRepo struct {
	byID   map[int64]*models.Assignment
	nextID int64
	tasks  *fakeTaskRepo
}

func newFakeAssignmentRepo(tasks *fakeTaskRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byID: map[int64]*models.Assignment{}, nextID: 1, tasks: tasks}
}

func (r *fakeAssignmentRepo) cascade(taskID int64, status models.TaskStatus) {
	if t, ok := r.tasks.tasks[taskID]; ok {
		t.Status = status
	}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *models.Assignment, taskStatus models.TaskStatus) error {
	for _, existing := range r.byID {
		if existing.TaskID == a.TaskID {
			return repositories.ErrAlreadyAssigned
		}
	}
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.byID[a.ID] = &cp
	r.cascade(a.TaskID, taskStatus)
	return nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id int64) (*models.Assignment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) FindByTaskID(_ context.Context, taskID int64) (*models.Assignment, error) {
	for _, a := range r.byID {
		if a.TaskID == taskID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAssignmentRepo) FindAll(_ context.Context) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range r.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) Save(_ context.Context, a *models.Assignment, taskStatus models.TaskStatus) error {
	if _, ok := r.byID[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *a
	r.byID[a.ID] = &cp
	r.cascade(a.TaskID, taskStatus)
	return nil
}

func (r *fakeAssignmentRepo) UpdateNotes(_ context.Context, id int64, notes string) error {
	a, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Notes = notes
	return nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id int64, taskStatus models.TaskStatus) error {
	a, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	r.cascade(a.TaskID, taskStatus)
	return nil
}

type fakeWorkSessionRepo struct {
	sessions []models.WorkSession
	nextID   int64
}

func (r *fakeWorkSessionRepo) Store(_ context.Context, s *models.WorkSession) error {
	r.nextID++
	s.ID = r.nextID
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *fakeWorkSessionRepo) FindByUnitAndTeknisi(_ context.Context, unitID, teknisiID int64) ([]models.WorkSession, error) {
	var out []models.WorkSession
	for _, s := range r.sessions {
		if s.UnitID == unitID && s.TeknisiID == teknisiID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScanTime.Before(out[j].ScanTime) })
	return out, nil
}

func (r *fakeWorkSessionRepo) FindRecentByUnit(_ context.Context, unitID int64, limit int) ([]models.WorkSession, error) {
	var out []models.WorkSession
	for _, s := range r.sessions {
		if s.UnitID == unitID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScanTime.After(out[j].ScanTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func ts(t *testFixtureClock, offsetMinutes int) time.Time {
	return t.base.Add(time.Duration(offsetMinutes) * time.Minute)
}

type testFixtureClock struct {
	base time.Time
}

func newClock() *testFixtureClock {
	return &testFixtureClock{base: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
}
