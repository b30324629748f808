package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldservice/internal/models"
	"fieldservice/internal/pdf"
	"fieldservice/internal/services"
)

const historyLimitCap = 200

type UnitHandler struct {
	history services.UnitHistoryService
	reports *pdf.ReportGenerator
}

func NewUnitHandler(history services.UnitHistoryService, reports *pdf.ReportGenerator) *UnitHandler {
	return &UnitHandler{history: history, reports: reports}
}

// GET /units/:id
func (h *UnitHandler) GetByID(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[unit][getByID] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	unit, err := h.history.GetUnit(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "unit not found"})
		return
	}

	h.history.LogAccess(id, userID, "view")
	c.JSON(http.StatusOK, unit)
}

// GET /units/:id/history?type&limit
func (h *UnitHandler) History(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[unit][history] call by userID=%d role=%s id_param=%s q=%v", userID, role, c.Param("id"), c.Request.URL.RawQuery)

	id, typeFilter, limit, ok := h.historyParams(c)
	if !ok {
		return
	}

	entries, err := h.history.History(c.Request.Context(), id, typeFilter, limit)
	if err != nil {
		log.Printf("[unit][history][err] unit=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to build history"})
		return
	}

	h.history.LogAccess(id, userID, "history")
	log.Printf("[unit][history][ok] unit=%d count=%d", id, len(entries))
	c.JSON(http.StatusOK, entries)
}

// GET /units/:id/history/report — the same timeline as a PDF.
func (h *UnitHandler) HistoryReport(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[unit][report] call by userID=%d role=%s id_param=%s", userID, role, c.Param("id"))

	id, typeFilter, limit, ok := h.historyParams(c)
	if !ok {
		return
	}

	unit, err := h.history.GetUnit(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "unit not found"})
		return
	}
	entries, err := h.history.History(c.Request.Context(), id, typeFilter, limit)
	if err != nil {
		log.Printf("[unit][report][err] unit=%d: %v", id, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to build history"})
		return
	}

	data, err := h.reports.UnitHistory(unit, entries)
	if err != nil {
		log.Printf("[unit][report][err] render unit=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	h.history.LogAccess(id, userID, "history")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="unit-%d-history.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *UnitHandler) historyParams(c *gin.Context) (id int64, typeFilter string, limit int, ok bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, "", 0, false
	}

	typeFilter = c.Query("type")
	switch typeFilter {
	case "", models.HistoryWorkHistory, models.HistoryAccessLog, models.HistoryMaintenance,
		models.HistoryPartsReplacement, models.HistoryWorkSession:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history type"})
		return 0, "", 0, false
	}

	limit = 50
	if v, exists := c.GetQuery("limit"); exists {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return 0, "", 0, false
		}
		if n > historyLimitCap {
			n = historyLimitCap
		}
		limit = n
	}
	return id, typeFilter, limit, true
}
