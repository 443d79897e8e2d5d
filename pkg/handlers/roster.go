package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// ListRoster returns all roster entries sorted by date
func (h *Handler) ListRoster(c *gin.Context) {
	var entries []models.ShiftEntry
	if err := h.DB.Order("shift_date, staff_name").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch roster"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// TwoWeekRoster returns entries whose date falls within the next 14 days,
// today included
func (h *Handler) TwoWeekRoster(c *gin.Context) {
	today := time.Now().Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 14).Format("2006-01-02")

	var entries []models.ShiftEntry
	if err := h.DB.Where("shift_date >= ? AND shift_date <= ?", today, end).
		Order("shift_date, staff_name").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch roster"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteRosterEntry removes a single entry, kept for manual cleanup
func (h *Handler) DeleteRosterEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid roster entry ID"})
		return
	}

	res := h.DB.Delete(&models.ShiftEntry{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete roster entry"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Roster entry with ID " + c.Param("id") + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roster entry deleted successfully"})
}

// GenerateRoster runs the generator for the requested window and returns
// the freshly written entries
func (h *Handler) GenerateRoster(c *gin.Context) {
	var req models.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateRosterRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Roster.Generate(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Roster generation failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}
