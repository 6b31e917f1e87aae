package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/middleware"
	"team-collab-api/internal/models"
	"team-collab-api/internal/policy"
)

// UserHandler serves user listing and admin-only user management.
type UserHandler struct {
	db       *gorm.DB
	authn    *middleware.Authenticator
	recorder *activity.Recorder
}

// NewUserHandler wires the handler to its collaborators.
func NewUserHandler(db *gorm.DB, authn *middleware.Authenticator, recorder *activity.Recorder) *UserHandler {
	return &UserHandler{db: db, authn: authn, recorder: recorder}
}

// UpdateRoleRequest represents the role-change payload.
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// List handles GET /api/auth/users
func (h *UserHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewUsers, policy.Resource{}) {
		return
	}

	var users []models.User
	if err := h.db.Order("created_at asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// UpdateRole handles PATCH /api/auth/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionManageUsers, policy.Resource{}) {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	if !req.Role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: must be admin, project_manager or team_member"})
		return
	}

	userID := c.Param("id")
	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if err := h.db.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	user.Role = req.Role

	// The change must be visible on the subject's next request.
	h.authn.Invalidate(user.ID)

	h.recorder.Record(models.ActivityUserRoleSet, p.UserID, "user", user.ID,
		fmt.Sprintf("%s is now %s", user.Name, user.Role))

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/auth/users/:id
// Deleting a user prunes it from every task assignee set and team roster so
// no dangling references remain.
func (h *UserHandler) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionManageUsers, policy.Resource{}) {
		return
	}

	userID := c.Param("id")
	if userID == p.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_assignees WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM team_members WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.authn.Invalidate(userID)

	h.recorder.Record(models.ActivityUserDeleted, p.UserID, "user", userID,
		fmt.Sprintf("%s was removed", user.Name))

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"id":      userID,
	})
}
