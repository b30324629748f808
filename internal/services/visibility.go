package services

import (
	"fieldservice/internal/authz"
	"fieldservice/internal/models"
)

// VisibleTasks applies the role-scoped listing rules:
//   - admin sees everything, completed included
//   - other roles never see completed tasks in listings
//   - teknisi sees own-assigned tasks plus the pickup pool (tasks
//     without any assignment), never another technician's tasks
//   - supervisor and sales see all non-completed tasks
//
// Unknown roles get nothing (fail closed).
func VisibleTasks(actorID int64, role string, tasks []models.Task, assignments []models.Assignment) []models.Task {
	if authz.IsAdmin(role) {
		return tasks
	}
	if !authz.IsKnown(role) {
		return []models.Task{}
	}

	byTask := make(map[int64]*models.Assignment, len(assignments))
	for i := range assignments {
		byTask[assignments[i].TaskID] = &assignments[i]
	}

	out := []models.Task{}
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			continue
		}
		if role == authz.RoleTeknisi {
			a := byTask[t.ID]
			if a != nil && a.TeknisiID != actorID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
