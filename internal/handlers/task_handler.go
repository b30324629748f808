package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldservice/internal/models"
	"fieldservice/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][create] call by userID=%d role=%s", userID, role)

	var req struct {
		Title     string              `json:"title" binding:"required"`
		Type      models.TaskType     `json:"type"`
		Priority  models.TaskPriority `json:"priority"`
		UnitID    *int64              `json:"unit_id"`
		CompanyID *int64              `json:"company_id"`
		Deadline  string              `json:"deadline"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		t, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			log.Printf("[task][create][err] invalid deadline=%q: %v", req.Deadline, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline (RFC3339)"})
			return
		}
		deadline = &t
	}

	task := &models.Task{
		Title:     req.Title,
		Type:      req.Type,
		Priority:  req.Priority,
		UnitID:    req.UnitID,
		CompanyID: req.CompanyID,
		Deadline:  deadline,
		CreatorID: userID,
	}

	created, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(statusForError(err), gin.H{"error": "failed to create task"})
		return
	}
	log.Printf("[task][create][ok] id=%d title=%q", created.ID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][list] call by userID=%d role=%s q=%v", userID, role, c.Request.URL.RawQuery)

	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		p := models.TaskPriority(v)
		filter.Priority = &p
	}
	if v, ok := c.GetQuery("type"); ok {
		t := models.TaskType(v)
		filter.Type = &t
	}
	if v, ok := c.GetQuery("unit_id"); ok {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.UnitID = &id
		} else {
			log.Printf("[task][list][warn] bad unit_id=%q: %v", v, err)
		}
	}
	if v, ok := c.GetQuery("search"); ok && v != "" {
		filter.Search = &v
	}

	sortOpt := models.TaskSort{
		By:    c.Query("sortBy"),
		Order: c.Query("sortOrder"),
	}

	tasks, err := h.service.List(c.Request.Context(), userID, role, filter, sortOpt)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id — direct lookup, not visibility-filtered.
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][getByID] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][update] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Title     *string              `json:"title"`
		Type      *models.TaskType     `json:"type"`
		Priority  *models.TaskPriority `json:"priority"`
		UnitID    *int64               `json:"unit_id"`
		CompanyID *int64               `json:"company_id"`
		Deadline  *string              `json:"deadline"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := models.Task{}
	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Type != nil {
		update.Type = *req.Type
	}
	if req.Priority != nil {
		update.Priority = *req.Priority
	}
	update.UnitID = req.UnitID
	update.CompanyID = req.CompanyID
	if req.Deadline != nil && *req.Deadline != "" {
		t, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline (RFC3339)"})
			return
		}
		update.Deadline = &t
	}

	updated, err := h.service.Update(c.Request.Context(), id, &update)
	if err != nil {
		log.Printf("[task][update][err] save id=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// POST /tasks/:id/close — terminal override; the row stays.
func (h *TaskHandler) Close(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][close] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	closed, err := h.service.Close(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][close][err] id=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][close][ok] id=%d", id)
	c.JSON(http.StatusOK, closed)
}
