package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldservice/internal/authz"
	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
	"fieldservice/internal/services"
)

type AssignmentHandler struct {
	service services.AssignmentService
	tasks   services.TaskService

	// notification side channel
	tg    *services.TelegramService
	email services.EmailService
	users repositories.UserRepository
}

func NewAssignmentHandler(
	service services.AssignmentService,
	tasks services.TaskService,
	tg *services.TelegramService,
	email services.EmailService,
	users repositories.UserRepository,
) *AssignmentHandler {
	return &AssignmentHandler{service: service, tasks: tasks, tg: tg, email: email, users: users}
}

// POST /assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[assignment][create] call by userID=%d role=%s", userID, role)

	var req struct {
		TaskID       int64  `json:"task_id" binding:"required"`
		TeknisiID    int64  `json:"teknisi_id" binding:"required"`
		SupervisorID int64  `json:"supervisor_id" binding:"required"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[assignment][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.Assign(c.Request.Context(), req.TaskID, req.TeknisiID, req.SupervisorID, req.Notes)
	if err != nil {
		log.Printf("[assignment][create][err] task=%d teknisi=%d: %v", req.TaskID, req.TeknisiID, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[assignment][create][ok] id=%d task=%d teknisi=%d", a.ID, a.TaskID, a.TeknisiID)
	c.JSON(http.StatusCreated, a)

	h.notifyAssigned(a)
}

// GET /assignments/:id
func (h *AssignmentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /tasks/:id/assignment
func (h *AssignmentHandler) GetByTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	a, err := h.service.GetByTaskID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// PUT /assignments/:id
// Accepts either {action: start|complete, completion_notes?} or direct
// field edits {notes?, started_at?, completed_at?}. Both paths cascade
// the task status inside the engine.
func (h *AssignmentHandler) Update(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[assignment][update] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Action          string  `json:"action"` // start | complete
		CompletionNotes string  `json:"completion_notes"`
		Notes           *string `json:"notes"`
		StartedAt       *string `json:"started_at"`   // RFC3339
		CompletedAt     *string `json:"completed_at"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[assignment][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A technician may only act on their own assignment.
	if role == authz.RoleTeknisi {
		current, err := h.service.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": "assignment not found"})
			return
		}
		if current.TeknisiID != userID {
			log.Printf("[assignment][update][deny] teknisi=%d assignment owner=%d", userID, current.TeknisiID)
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	var a *models.Assignment
	switch req.Action {
	case "start":
		a, err = h.service.Start(c.Request.Context(), id)
	case "complete":
		a, err = h.service.Complete(c.Request.Context(), id, req.CompletionNotes)
	case "":
		// direct field edits; timestamp edits are supervisor/admin only
		if (req.StartedAt != nil || req.CompletedAt != nil) && !authz.CanManageAssignments(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		var startedAt, completedAt *time.Time
		if req.StartedAt != nil {
			t, perr := time.Parse(time.RFC3339, *req.StartedAt)
			if perr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid started_at (RFC3339)"})
				return
			}
			startedAt = &t
		}
		if req.CompletedAt != nil {
			t, perr := time.Parse(time.RFC3339, *req.CompletedAt)
			if perr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed_at (RFC3339)"})
				return
			}
			completedAt = &t
		}
		if req.Notes != nil && startedAt == nil && completedAt == nil {
			a, err = h.service.UpdateNotes(c.Request.Context(), id, *req.Notes)
		} else {
			a, err = h.service.EditFields(c.Request.Context(), id, req.Notes, startedAt, completedAt)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err != nil {
		log.Printf("[assignment][update][err] id=%d action=%q: %v", id, req.Action, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[assignment][update][ok] id=%d action=%q", id, req.Action)
	c.JSON(http.StatusOK, a)

	if req.Action == "complete" {
		h.notifyCompleted(a)
	}
}

// DELETE /assignments/:id — unassign; the task resets to pending.
func (h *AssignmentHandler) Delete(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[assignment][delete] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Unassign(c.Request.Context(), id); err != nil {
		log.Printf("[assignment][delete][err] id=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[assignment][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// --- notification side channel; runs detached from the request so a
// client disconnect cannot cancel a half-sent notification; failures
// are logged and discarded ---

func (h *AssignmentHandler) notifyAssigned(a *models.Assignment) {
	if a == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		task, err := h.tasks.GetByID(ctx, a.TaskID)
		if err != nil {
			log.Printf("[assignment][notify] task lookup failed: id=%d err=%v", a.TaskID, err)
			return
		}

		if h.tg != nil && h.users != nil {
			if teknisi, err := h.users.FindByID(ctx, a.TeknisiID); err == nil && teknisi.TelegramChatID != 0 {
				msg := "New task assigned\n" +
					"• <b>" + task.Title + "</b>\n" +
					"• Priority: <code>" + string(task.Priority) + "</code>\n" +
					"• Type: <code>" + string(task.Type) + "</code>"
				_ = h.tg.SendMessage(teknisi.TelegramChatID, msg)
			}
		}
		if h.email != nil && h.users != nil {
			supervisor, serr := h.users.FindByID(ctx, a.SupervisorID)
			teknisi, terr := h.users.FindByID(ctx, a.TeknisiID)
			if serr == nil && terr == nil {
				if err := h.email.SendAssignmentEmail(supervisor.Email, task.Title, teknisi.Name); err != nil {
					log.Printf("[assignment][notify] email failed: %v", err)
				}
			}
		}
	}()
}

func (h *AssignmentHandler) notifyCompleted(a *models.Assignment) {
	if a == nil || h.email == nil || h.users == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		task, err := h.tasks.GetByID(ctx, a.TaskID)
		if err != nil {
			return
		}
		supervisor, err := h.users.FindByID(ctx, a.SupervisorID)
		if err != nil {
			return
		}
		if err := h.email.SendCompletionEmail(supervisor.Email, task.Title, a.Notes); err != nil {
			log.Printf("[assignment][notify] completion email failed: %v", err)
		}
	}()
}
