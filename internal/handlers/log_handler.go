package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/services"
)

// LogHandler serves the deleted-ticket log.
type LogHandler struct {
	auditService services.AuditServicer
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(auditService services.AuditServicer) *LogHandler {
	return &LogHandler{auditService: auditService}
}

// ListDeleted returns the deletion log
// @Summary     List deleted tickets
// @Description Snapshots of deleted tickets in the order they were deleted
// @Tags        logs
// @Produce     json
// @Success     200 {array}  models.DeletedTicketLogEntry "Deleted tickets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /logs/deleted [get]
// @Router      /admin/deleted-logs [get]
func (h *LogHandler) ListDeleted(c *gin.Context) {
	entries, err := h.auditService.ListDeleted()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RemoveDeleted drops one entry from the deletion log
// @Summary     Remove a deletion log entry
// @Tags        admin
// @Produce     json
// @Param       index path int true "Zero-based entry index"
// @Success     200 {object} SuccessResponse "Entry removed"
// @Failure     400 {object} ErrorResponse "Invalid index"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/deleted-logs/{index} [delete]
func (h *LogHandler) RemoveDeleted(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidIndex)
		return
	}

	if err := h.auditService.RemoveDeleted(index); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}
