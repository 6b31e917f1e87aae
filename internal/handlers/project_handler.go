package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/models"
	"team-collab-api/internal/policy"
)

// ProjectHandler serves project CRUD. A project's member set is never stored;
// clients read it off the preloaded team roster.
type ProjectHandler struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

// NewProjectHandler wires the handler to its collaborators.
func NewProjectHandler(db *gorm.DB, recorder *activity.Recorder) *ProjectHandler {
	return &ProjectHandler{db: db, recorder: recorder}
}

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Team        string `json:"team" binding:"required"`
}

// UpdateProjectRequest represents the request payload for updating a project
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Team        *string `json:"team"`
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewProjects, policy.Resource{}) {
		return
	}

	var projects []models.Project
	err := h.db.Preload("Team").Preload("Team.Members").Order("created_at desc").Find(&projects).Error
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionCreateProject, policy.Resource{}) {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, ok := h.loadTeam(c, req.Team)
	if !ok {
		return
	}

	project := models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		TeamID:      team.ID,
		Team:        team,
	}
	if err := h.db.Omit("Team").Create(&project).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityProjectCreated, p.UserID, "project", project.ID,
		fmt.Sprintf("Project %q was created under team %q", project.Name, team.Name))

	c.JSON(http.StatusCreated, project)
}

// Update handles PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionUpdateProject, policy.Resource{}) {
		return
	}

	var project models.Project
	err := h.db.Where("id = ?", c.Param("id")).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Team != nil {
		team, ok := h.loadTeam(c, *req.Team)
		if !ok {
			return
		}
		project.TeamID = team.ID
		project.Team = team
	}

	if err := h.db.Omit("Team").Save(&project).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityProjectUpdated, p.UserID, "project", project.ID,
		fmt.Sprintf("Project %q was updated", project.Name))

	c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionDeleteProject, policy.Resource{}) {
		return
	}

	projectID := c.Param("id")
	var project models.Project
	err := h.db.Where("id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if err := h.db.Delete(&project).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityProjectDeleted, p.UserID, "project", projectID,
		fmt.Sprintf("Project %q was deleted", project.Name))

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"id":      projectID,
	})
}

// loadTeam resolves the owning team with its roster.
func (h *ProjectHandler) loadTeam(c *gin.Context, teamID string) (models.Team, bool) {
	var team models.Team
	err := h.db.Preload("Members").Where("id = ?", teamID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return models.Team{}, false
	}
	return team, true
}
