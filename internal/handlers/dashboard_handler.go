package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"team-collab-api/internal/models"
	"team-collab-api/internal/policy"
)

// DashboardHandler serves the read-only stats projection.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler wires the handler to the store.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats handles GET /api/dashboard/stats
// Returns entity counts plus task counts per status.
func (h *DashboardHandler) Stats(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewTasks, policy.Resource{}) {
		return
	}

	var users, teams, projects int64
	if err := h.db.Model(&models.User{}).Count(&users).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if err := h.db.Model(&models.Team{}).Count(&teams).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	if err := h.db.Model(&models.Project{}).Count(&projects).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := h.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	counts := map[string]int64{
		string(models.StatusTodo):       0,
		string(models.StatusInProgress): 0,
		string(models.StatusCompleted):  0,
	}
	var total int64
	for _, r := range rows {
		counts[r.Status] = r.Count
		total += r.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"teams":    teams,
		"projects": projects,
		"tasks": gin.H{
			"todo":        counts[string(models.StatusTodo)],
			"in_progress": counts[string(models.StatusInProgress)],
			"completed":   counts[string(models.StatusCompleted)],
			"total":       total,
		},
	})
}
