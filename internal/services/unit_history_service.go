package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// UnitHistoryService merges the five independent per-unit event logs
// into one reverse-chronological timeline. Each source is overfetched
// to the full limit and the truncation happens only after the global
// sort; truncating per source first would drop a source's newest rows
// whenever another source is busier.
type UnitHistoryService interface {
	GetUnit(ctx context.Context, id int64) (*models.Unit, error)
	History(ctx context.Context, unitID int64, typeFilter string, limit int) ([]models.UnitHistoryEntry, error)
	// LogAccess appends an access event on its own error boundary; it
	// never blocks or fails the caller's request.
	LogAccess(unitID, userID int64, accessType string)
}

type unitHistoryService struct {
	units    repositories.UnitRepository
	sessions repositories.WorkSessionRepository
}

func NewUnitHistoryService(units repositories.UnitRepository, sessions repositories.WorkSessionRepository) UnitHistoryService {
	return &unitHistoryService{units: units, sessions: sessions}
}

func (s *unitHistoryService) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	return s.units.FindByID(ctx, id)
}

func wantSource(typeFilter, source string) bool {
	return typeFilter == "" || typeFilter == source
}

func (s *unitHistoryService) History(ctx context.Context, unitID int64, typeFilter string, limit int) ([]models.UnitHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := []models.UnitHistoryEntry{}

	// Fixed fetch order; the stable sort below keeps it as the
	// tie-break for equal dates.
	if wantSource(typeFilter, models.HistoryWorkHistory) {
		rows, err := s.units.ListWorkHistory(ctx, unitID, limit)
		if err != nil {
			return nil, fmt.Errorf("work history: %w", err)
		}
		for _, h := range rows {
			tID := h.TeknisiID
			entries = append(entries, models.UnitHistoryEntry{
				Type:        models.HistoryWorkHistory,
				ID:          h.ID,
				Date:        h.WorkDate,
				Description: h.Description,
				TeknisiID:   &tID,
				PhotoURL:    h.PhotoURL,
			})
		}
	}

	if wantSource(typeFilter, models.HistoryAccessLog) {
		rows, err := s.units.ListAccessLogs(ctx, unitID, limit)
		if err != nil {
			return nil, fmt.Errorf("access logs: %w", err)
		}
		for _, l := range rows {
			uID := l.UserID
			entries = append(entries, models.UnitHistoryEntry{
				Type:        models.HistoryAccessLog,
				ID:          l.ID,
				Date:        l.AccessedAt,
				Description: "Unit accessed (" + l.AccessType + ")",
				UserID:      &uID,
			})
		}
	}

	if wantSource(typeFilter, models.HistoryMaintenance) {
		rows, err := s.units.ListMaintenance(ctx, unitID, limit)
		if err != nil {
			return nil, fmt.Errorf("maintenance schedules: %w", err)
		}
		for _, m := range rows {
			desc := m.Description
			if desc == "" {
				desc = m.MaintenanceType + " maintenance"
			}
			entries = append(entries, models.UnitHistoryEntry{
				Type:        models.HistoryMaintenance,
				ID:          m.ID,
				Date:        m.ScheduledDate,
				Description: desc,
				Status:      m.Status,
			})
		}
	}

	if wantSource(typeFilter, models.HistoryPartsReplacement) {
		rows, err := s.units.ListPartsReplacements(ctx, unitID, limit)
		if err != nil {
			return nil, fmt.Errorf("parts replacements: %w", err)
		}
		for _, p := range rows {
			tID := p.TeknisiID
			entries = append(entries, models.UnitHistoryEntry{
				Type:        models.HistoryPartsReplacement,
				ID:          p.ID,
				Date:        p.ReplacementDate,
				Description: "Replaced part: " + p.PartName,
				TeknisiID:   &tID,
				PartName:    p.PartName,
			})
		}
	}

	if wantSource(typeFilter, models.HistoryWorkSession) {
		rows, err := s.sessions.FindRecentByUnit(ctx, unitID, limit)
		if err != nil {
			return nil, fmt.Errorf("work sessions: %w", err)
		}
		for _, ws := range rows {
			tID := ws.TeknisiID
			entries = append(entries, models.UnitHistoryEntry{
				Type:         models.HistoryWorkSession,
				ID:           ws.ID,
				Date:         ws.ScanTime,
				Description:  "Session " + string(ws.SessionType),
				TeknisiID:    &tID,
				SessionType:  string(ws.SessionType),
				GPSLatitude:  ws.GPSLatitude,
				GPSLongitude: ws.GPSLongitude,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *unitHistoryService) LogAccess(unitID, userID int64, accessType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		l := &models.AccessLog{
			UnitID:     unitID,
			UserID:     userID,
			AccessType: accessType,
			AccessedAt: time.Now(),
		}
		if err := s.units.InsertAccessLog(ctx, l); err != nil {
			log.Printf("[history][access-log][err] unit=%d user=%d type=%s: %v", unitID, userID, accessType, err)
		}
	}()
}
