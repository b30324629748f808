package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldservice/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		assignment *models.Assignment
		want       models.TaskStatus
	}{
		{
			name:       "no assignment means pending",
			assignment: nil,
			want:       models.StatusPending,
		},
		{
			name:       "fresh assignment",
			assignment: &models.Assignment{},
			want:       models.StatusAssigned,
		},
		{
			name:       "started but not completed",
			assignment: &models.Assignment{StartedAt: &now},
			want:       models.StatusInProgress,
		},
		{
			name:       "completed",
			assignment: &models.Assignment{StartedAt: &now, CompletedAt: &now},
			want:       models.StatusCompleted,
		},
		{
			name:       "completed without start still wins over assigned",
			assignment: &models.Assignment{CompletedAt: &now},
			want:       models.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatus(tt.assignment))
		})
	}
}
