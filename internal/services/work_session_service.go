package services

import (
	"context"
	"time"

	"fieldservice/internal/authz"
	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// WorkSessionService records technician presence events and answers
// the "is there an open session" question. Open is a derived property:
// the most recent work_start with no later work_end, recomputed on
// every call.
type WorkSessionService interface {
	Record(ctx context.Context, actorRole string, s *models.WorkSession) (*models.WorkSession, error)
	FindOpenSession(ctx context.Context, unitID, teknisiID int64) (*models.WorkSession, error)
}

type workSessionService struct {
	repo repositories.WorkSessionRepository
}

func NewWorkSessionService(repo repositories.WorkSessionRepository) WorkSessionService {
	return &workSessionService{repo: repo}
}

func validSessionType(t models.SessionType) bool {
	switch t {
	case models.SessionWorkStart, models.SessionWorkEnd,
		models.SessionInspection, models.SessionMaintenance, models.SessionRepair:
		return true
	}
	return false
}

func (s *workSessionService) Record(ctx context.Context, actorRole string, sess *models.WorkSession) (*models.WorkSession, error) {
	if !authz.CanRecordSessions(actorRole) {
		return nil, ErrForbidden
	}
	if sess.UnitID == 0 || sess.TeknisiID == 0 || !validSessionType(sess.SessionType) {
		return nil, ErrValidation
	}
	if sess.ScanTime.IsZero() {
		sess.ScanTime = time.Now()
	}
	if err := s.repo.Store(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *workSessionService) FindOpenSession(ctx context.Context, unitID, teknisiID int64) (*models.WorkSession, error) {
	events, err := s.repo.FindByUnitAndTeknisi(ctx, unitID, teknisiID)
	if err != nil {
		return nil, err
	}
	return openSession(events), nil
}

// openSession walks the pair's events in scan order. A work_start
// becomes the open candidate; any strictly later work_end clears it.
// Nil means no open session.
func openSession(events []models.WorkSession) *models.WorkSession {
	var open *models.WorkSession
	for i := range events {
		e := &events[i]
		switch e.SessionType {
		case models.SessionWorkStart:
			open = e
		case models.SessionWorkEnd:
			if open != nil && e.ScanTime.After(open.ScanTime) {
				open = nil
			}
		}
	}
	return open
}
