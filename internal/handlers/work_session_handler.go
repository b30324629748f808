package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldservice/internal/models"
	"fieldservice/internal/services"
)

type WorkSessionHandler struct {
	service services.WorkSessionService
}

func NewWorkSessionHandler(service services.WorkSessionService) *WorkSessionHandler {
	return &WorkSessionHandler{service: service}
}

// POST /work-sessions — teknisi only; the service enforces the role.
func (h *WorkSessionHandler) Create(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[session][create] call by userID=%d role=%s", userID, role)

	var req struct {
		UnitID       int64              `json:"unit_id" binding:"required"`
		TeknisiID    int64              `json:"teknisi_id" binding:"required"`
		SessionType  models.SessionType `json:"session_type" binding:"required"`
		GPSLatitude  *float64           `json:"gps_latitude"`
		GPSLongitude *float64           `json:"gps_longitude"`
		Notes        string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[session][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := &models.WorkSession{
		UnitID:       req.UnitID,
		TeknisiID:    req.TeknisiID,
		SessionType:  req.SessionType,
		GPSLatitude:  req.GPSLatitude,
		GPSLongitude: req.GPSLongitude,
		Notes:        req.Notes,
	}

	created, err := h.service.Record(c.Request.Context(), role, sess)
	if err != nil {
		log.Printf("[session][create][err] unit=%d teknisi=%d: %v", req.UnitID, req.TeknisiID, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[session][create][ok] id=%d unit=%d type=%s", created.ID, created.UnitID, created.SessionType)
	c.JSON(http.StatusCreated, created)
}

// GET /work-sessions/open?unit_id&teknisi_id
func (h *WorkSessionHandler) Open(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Query("unit_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit_id"})
		return
	}
	teknisiID, err := strconv.ParseInt(c.Query("teknisi_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teknisi_id"})
		return
	}

	open, err := h.service.FindOpenSession(c.Request.Context(), unitID, teknisiID)
	if err != nil {
		log.Printf("[session][open][err] unit=%d teknisi=%d: %v", unitID, teknisiID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up open session"})
		return
	}
	if open == nil {
		c.JSON(http.StatusOK, gin.H{"open": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": true, "session": open})
}
