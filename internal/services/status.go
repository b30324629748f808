package services

import "fieldservice/internal/models"

// deriveStatus is the single place a task status is computed from its
// assignment. The completion check runs before the start check so a
// stale started_at can never mask a finished assignment.
func deriveStatus(a *models.Assignment) models.TaskStatus {
	if a == nil {
		return models.StatusPending
	}
	if a.CompletedAt != nil {
		return models.StatusCompleted
	}
	if a.StartedAt != nil {
		return models.StatusInProgress
	}
	return models.StatusAssigned
}
