package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/services"
)

type FeedHandler struct {
	refreshService   *services.RefreshService
	insightService   *services.InsightService
	narrativeService *services.NarrativeService
	exportService    *services.ExportService
}

func NewFeedHandler(
	refreshService *services.RefreshService,
	insightService *services.InsightService,
	narrativeService *services.NarrativeService,
	exportService *services.ExportService,
) *FeedHandler {
	return &FeedHandler{
		refreshService:   refreshService,
		insightService:   insightService,
		narrativeService: narrativeService,
		exportService:    exportService,
	}
}

// Feed returns the full composite feed from the cache
func (h *FeedHandler) Feed(c *gin.Context) {
	now := time.Now()
	h.refreshService.MarkActive(now)

	greeting, momentum := h.refreshService.Greeting()
	lastSuccess, hasCache := h.refreshService.LastSuccess()

	response := gin.H{
		"greeting": greeting,
		"momentum": momentum,
		"actions":  h.refreshService.Actions(),
		"dossiers": h.refreshService.Dossiers(now),
		"insights": h.refreshService.Insights(now),
	}
	if briefing := h.refreshService.Briefing(now); briefing != nil {
		response["briefing"] = briefing
	}
	if hasCache {
		response["refreshed_at"] = lastSuccess
	}

	c.JSON(http.StatusOK, response)
}

// Actions returns the ranked action stream
func (h *FeedHandler) Actions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.refreshService.Actions()})
}

// Dossiers returns the unexpired meeting dossiers
func (h *FeedHandler) Dossiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dossiers": h.refreshService.Dossiers(time.Now())})
}

// Insights returns the current insight list
func (h *FeedHandler) Insights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"insights": h.refreshService.Insights(time.Now())})
}

// Greeting returns the greeting and momentum stats
func (h *FeedHandler) Greeting(c *gin.Context) {
	greeting, momentum := h.refreshService.Greeting()
	c.JSON(http.StatusOK, gin.H{"greeting": greeting, "momentum": momentum})
}

// Briefing returns the narrative briefing if one is live
func (h *FeedHandler) Briefing(c *gin.Context) {
	briefing := h.refreshService.Briefing(time.Now())
	if briefing == nil {
		c.JSON(http.StatusOK, gin.H{"briefing": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"briefing": briefing})
}

// DismissBriefing durably records a briefing dismissal
func (h *FeedHandler) DismissBriefing(c *gin.Context) {
	if h.narrativeService == nil {
		c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
		return
	}
	if err := h.narrativeService.Dismiss(time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record dismissal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

type dismissInsightRequest struct {
	Kind string `json:"kind" binding:"required"`
	Key  string `json:"key" binding:"required"`
}

// DismissInsight durably suppresses an insight for the cooldown window.
// A failed write is surfaced, never silently dropped.
func (h *FeedHandler) DismissInsight(c *gin.Context) {
	var req dismissInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind and key are required"})
		return
	}

	if err := h.insightService.Suppress(models.InsightKind(req.Kind), req.Key, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record dismissal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

// Refresh triggers an immediate refresh cycle in the background; a cycle
// already in flight coalesces the trigger into a no-op. The cycle runs under
// the engine's own lifetime, not this request's context.
func (h *FeedHandler) Refresh(c *gin.Context) {
	h.refreshService.MarkActive(time.Now())
	started := h.refreshService.TriggerRefresh()
	c.JSON(http.StatusAccepted, gin.H{"started": started})
}

// Export streams the current feed as an Excel workbook
func (h *FeedHandler) Export(c *gin.Context) {
	_, momentum := h.refreshService.Greeting()
	file, err := h.exportService.Export(h.refreshService.Actions(), momentum)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="daybrief.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
