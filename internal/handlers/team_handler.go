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

// TeamHandler serves team CRUD and roster management.
type TeamHandler struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

// NewTeamHandler wires the handler to its collaborators.
func NewTeamHandler(db *gorm.DB, recorder *activity.Recorder) *TeamHandler {
	return &TeamHandler{db: db, recorder: recorder}
}

// CreateTeamRequest represents the request payload for creating a team
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddMemberRequest represents the request payload for adding a team member
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// List handles GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewTeams, policy.Resource{}) {
		return
	}

	var teams []models.Team
	if err := h.db.Preload("Members").Order("created_at desc").Find(&teams).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
		"count": len(teams),
	})
}

// Create handles POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionCreateTeam, policy.Resource{}) {
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	team := models.Team{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Members: []models.User{},
	}
	if err := h.db.Create(&team).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityTeamCreated, p.UserID, "team", team.ID,
		fmt.Sprintf("Team %q was created", team.Name))

	c.JSON(http.StatusCreated, team)
}

// AddMember handles POST /api/teams/:id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionAddTeamMember, policy.Resource{}) {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	team, ok := h.loadTeam(c, c.Param("id"))
	if !ok {
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", req.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if team.HasMember(user.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this team"})
		return
	}

	if err := h.db.Model(&team).Association("Members").Append(&user); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	team.Members = append(team.Members, user)

	h.recorder.Record(models.ActivityMemberAdded, p.UserID, "team", team.ID,
		fmt.Sprintf("%s joined team %q", user.Name, team.Name))

	c.JSON(http.StatusOK, team)
}

// RemoveMember handles DELETE /api/teams/:id/members/:userId
// Removal does not retroactively strip the user from task assignee sets;
// assignment is a snapshot taken at assignment time.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionRemoveTeamMember, policy.Resource{}) {
		return
	}

	team, ok := h.loadTeam(c, c.Param("id"))
	if !ok {
		return
	}

	userID := c.Param("userId")
	if !team.HasMember(userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of this team"})
		return
	}

	if err := h.db.Model(&team).Association("Members").Delete(&models.User{ID: userID}); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	remaining := make([]models.User, 0, len(team.Members))
	var removed models.User
	for _, m := range team.Members {
		if m.ID == userID {
			removed = m
			continue
		}
		remaining = append(remaining, m)
	}
	team.Members = remaining

	h.recorder.Record(models.ActivityMemberRemoved, p.UserID, "team", team.ID,
		fmt.Sprintf("%s left team %q", removed.Name, team.Name))

	c.JSON(http.StatusOK, team)
}

// loadTeam fetches a team with its roster, answering 404/503 on failure.
func (h *TeamHandler) loadTeam(c *gin.Context, teamID string) (models.Team, bool) {
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
