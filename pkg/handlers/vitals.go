package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahilverma/nursestation-go/pkg/vitals"
)

// ReceiveVitals logs a reading from a monitoring device and returns the
// tiered alert analysis
func (h *Handler) ReceiveVitals(c *gin.Context) {
	var reading vitals.Reading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := h.Monitor.Receive(reading)
	c.JSON(http.StatusOK, gin.H{"status": "Analysis Complete", "alert_data": alert})
}

// VitalsHistory returns the full stored reading log for a patient
func (h *Handler) VitalsHistory(c *gin.Context) {
	patientID := c.Param("patient_id")
	readings := h.Monitor.History(patientID)
	c.JSON(http.StatusOK, gin.H{
		"patient_id":     patientID,
		"total_readings": len(readings),
		"readings":       readings,
	})
}
