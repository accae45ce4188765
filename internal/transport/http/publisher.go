package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Divyendra-S/sasha/internal/domain/session"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Publisher exposes the active session's record to polling clients.
// Reading the full record consumes the unread-extraction flag; the
// status probe only peeks at it.
type Publisher struct {
	manager *session.Manager
	logger  *logging.Logger
}

func NewPublisher(manager *session.Manager, logger *logging.Logger) *Publisher {
	return &Publisher{
		manager: manager,
		logger:  logger,
	}
}

// Register mounts the polling API on the router's /api group.
func (p *Publisher) Register(r *Router) {
	r.API.GET("/record-data", p.handleRecordData)
	r.API.GET("/record-status", p.handleRecordStatus)
	r.API.GET("/health", p.handleHealth)
	r.API.GET("/sessions", p.handleSessions)
	r.API.GET("/sessions/:id", p.handleSessionByID)
}

// handleRecordData returns the projected record and clears the
// unread flag, so pollers can tell new data from already-seen data.
func (p *Publisher) handleRecordData(c *gin.Context) {
	rec, sessionID, ok := p.manager.ActiveRecord()
	if !ok {
		RespondError(c, http.StatusNotFound, "no active session", nil)
		return
	}

	snap := rec.Consume()
	// Collected names come from the snapshot's missing set so the
	// response is one consistent view even while extractions land.
	missing := make(map[string]struct{}, len(snap.Missing))
	for _, name := range snap.Missing {
		missing[name] = struct{}{}
	}
	collected := make([]string, 0, len(rec.Schema().FieldNames()))
	for _, name := range rec.Schema().FieldNames() {
		if _, still := missing[name]; !still {
			collected = append(collected, name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"sessionId":         sessionID,
		"data":              snap.Data,
		"extractedFields":   collected,
		"missingFields":     snap.Missing,
		"isComplete":        snap.Complete,
		"hasNewExtraction":  snap.HasUpdates,
		"extractionCounter": snap.UpdateCount,
	})
}

// handleRecordStatus is the non-consuming peek.
func (p *Publisher) handleRecordStatus(c *gin.Context) {
	rec, sessionID, ok := p.manager.ActiveRecord()
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success":          false,
			"hasNewExtraction": false,
			"message":          "no active session",
		})
		return
	}

	snap := rec.Peek()
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"sessionId":         sessionID,
		"hasNewExtraction":  snap.HasUpdates,
		"extractionCounter": snap.UpdateCount,
		"totalFields":       len(rec.Schema().Fields),
		"fieldsCollected":   len(rec.Schema().Fields) - len(snap.Missing),
	})
}

func (p *Publisher) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"status":   "healthy",
		"sessions": p.manager.Count(),
	})
}

// handleSessions lists archived session snapshots.
func (p *Publisher) handleSessions(c *gin.Context) {
	archives, err := p.manager.Archives(c.Request.Context())
	if err != nil {
		p.logger.ErrorTag("HTTP", "failed to list archives: %v", err)
		RespondError(c, http.StatusInternalServerError, "failed to list sessions", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, archives, "")
}

func (p *Publisher) handleSessionByID(c *gin.Context) {
	archive, err := p.manager.ArchivedSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "session not found", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, archive, "")
}
