package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahilverma/nursestation-go/pkg/interview"
	"github.com/sahilverma/nursestation-go/pkg/llm"
	"github.com/sahilverma/nursestation-go/pkg/models"
	"github.com/sahilverma/nursestation-go/pkg/report"
	"github.com/sahilverma/nursestation-go/pkg/roster"
	"github.com/sahilverma/nursestation-go/pkg/session"
	"github.com/sahilverma/nursestation-go/pkg/vitals"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Roster   *roster.Generator
	Sessions *session.Store
	Reports  *report.Generator
	LLM      llm.Client
	Monitor  *vitals.Monitor
}

func NewHandler(db *gorm.DB, gen *roster.Generator, sessions *session.Store, reports *report.Generator, client llm.Client, monitor *vitals.Monitor) *Handler {
	return &Handler{
		DB:       db,
		Roster:   gen,
		Sessions: sessions,
		Reports:  reports,
		LLM:      client,
		Monitor:  monitor,
	}
}

// Root lists the available endpoint groups
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Nurse Station API",
		"endpoints": gin.H{
			"chat":      "/chat",
			"report":    "/generate_report",
			"sessions":  "/sessions/",
			"inventory": "/inventory/",
			"billing":   "/billing/",
			"roster":    "/roster/",
			"protocols": "/protocols/",
			"analytics": "/analytics/",
			"vitals":    "/api/vitals/",
		},
	})
}

// Chat returns the next interview question for the given transcript. The
// interview driver is stateless; the client resends the full history each
// turn.
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next := interview.NextQuestion(req.Messages)
	c.JSON(http.StatusOK, models.ChatResponse{Response: next})
}

// GenerateReport builds the clinical prep report from a finished transcript
func (h *Handler) GenerateReport(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.Reports.Generate(c.Request.Context(), req.Messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating report: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.ReportResponse{Report: rep})
}

// StartSession opens a server-side interview session, optionally seeded
// with an existing transcript
func (h *Handler) StartSession(c *gin.Context) {
	var req models.ChatRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	id := h.Sessions.Create(req.Messages)
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// GetSession returns the stored transcript for a session
func (h *Handler) GetSession(c *gin.Context) {
	transcript, err := h.Sessions.Transcript(c.Param("id"))
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "messages": transcript})
}

// SessionChat appends the patient's answer to a session transcript and
// returns the next question
func (h *Handler) SessionChat(c *gin.Context) {
	id := c.Param("id")

	var msg models.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg.Role = models.RoleUser

	if err := h.Sessions.Append(id, msg); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	transcript, err := h.Sessions.Transcript(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	next := interview.NextQuestion(transcript)
	if err := h.Sessions.Append(id, models.ChatMessage{Role: models.RoleAssistant, Content: next}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{Response: next})
}

// EndSession discards a session transcript
func (h *Handler) EndSession(c *gin.Context) {
	h.Sessions.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}
