package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/authz"
	"fieldservice/internal/models"
)

func TestRecordRequiresTeknisiRole(t *testing.T) {
	svc := NewWorkSessionService(&fakeWorkSessionRepo{})
	sess := &models.WorkSession{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart}

	for _, role := range []string{authz.RoleAdmin, authz.RoleSupervisor, authz.RoleSales, "unknown", ""} {
		_, err := svc.Record(context.Background(), role, sess)
		assert.ErrorIs(t, err, ErrForbidden, "role %q", role)
	}

	created, err := svc.Record(context.Background(), authz.RoleTeknisi, sess)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.ScanTime.IsZero())
}

func TestRecordValidation(t *testing.T) {
	svc := NewWorkSessionService(&fakeWorkSessionRepo{})

	tests := []struct {
		name string
		sess models.WorkSession
	}{
		{"missing unit", models.WorkSession{TeknisiID: 2, SessionType: models.SessionWorkStart}},
		{"missing teknisi", models.WorkSession{UnitID: 1, SessionType: models.SessionWorkStart}},
		{"bad session type", models.WorkSession{UnitID: 1, TeknisiID: 2, SessionType: "coffee_break"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := tt.sess
			_, err := svc.Record(context.Background(), authz.RoleTeknisi, &sess)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestFindOpenSession(t *testing.T) {
	clock := newClock()

	tests := []struct {
		name   string
		events []models.WorkSession
		wantAt int // minute offset of the open start, -1 for none
	}{
		{
			name:   "no events",
			events: nil,
			wantAt: -1,
		},
		{
			name: "single open start",
			events: []models.WorkSession{
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 0)},
			},
			wantAt: 0,
		},
		{
			name: "start start end leaves nothing open",
			events: []models.WorkSession{
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 0)},
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 10)},
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkEnd, ScanTime: ts(clock, 20)},
			},
			wantAt: -1,
		},
		{
			name: "end then new start stays open",
			events: []models.WorkSession{
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 0)},
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkEnd, ScanTime: ts(clock, 10)},
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 20)},
			},
			wantAt: 20,
		},
		{
			name: "inspections never open or close a session",
			events: []models.WorkSession{
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 0)},
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionInspection, ScanTime: ts(clock, 5)},
			},
			wantAt: 0,
		},
		{
			name: "other technician's end does not close mine",
			events: []models.WorkSession{
				{UnitID: 1, TeknisiID: 2, SessionType: models.SessionWorkStart, ScanTime: ts(clock, 0)},
				{UnitID: 1, TeknisiID: 9, SessionType: models.SessionWorkEnd, ScanTime: ts(clock, 10)},
			},
			wantAt: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeWorkSessionRepo{sessions: tt.events}
			svc := NewWorkSessionService(repo)

			open, err := svc.FindOpenSession(context.Background(), 1, 2)
			require.NoError(t, err)

			if tt.wantAt < 0 {
				assert.Nil(t, open)
				return
			}
			require.NotNil(t, open)
			assert.Equal(t, ts(clock, tt.wantAt), open.ScanTime)
		})
	}
}
