package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/models"
	"team-collab-api/internal/policy"
)

// TaskHandler serves task CRUD and the status workflow.
type TaskHandler struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

// NewTaskHandler wires the handler to its collaborators.
func NewTaskHandler(db *gorm.DB, recorder *activity.Recorder) *TaskHandler {
	return &TaskHandler{db: db, recorder: recorder}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title     string            `json:"title" binding:"required"`
	Project   string            `json:"project" binding:"required"`
	Assignees []string          `json:"assignees"`
	Status    models.TaskStatus `json:"status"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title     *string            `json:"title"`
	Project   *string            `json:"project"`
	Assignees *[]string          `json:"assignees"`
	Status    *models.TaskStatus `json:"status"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewTasks, policy.Resource{}) {
		return
	}

	var tasks []models.Task
	err := h.db.Preload("Assignees").Preload("Project").Preload("Project.Team").
		Order("created_at desc").Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// My handles GET /api/tasks/my
// Returns tasks where the principal is in the assignee set. Matching is by
// user id only; tasks merely sharing the principal's display name never match.
func (h *TaskHandler) My(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewTasks, policy.Resource{}) {
		return
	}

	var tasks []models.Task
	err := h.db.Preload("Assignees").Preload("Project").Preload("Project.Team").
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", p.UserID).
		Order("tasks.created_at desc").Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// Create handles POST /api/tasks
// Every assignee must be on the project team's roster at creation time.
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionCreateTask, policy.Resource{}) {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: must be todo, in_progress or completed"})
		return
	}

	project, ok := h.loadProject(c, req.Project)
	if !ok {
		return
	}

	assignees, ok := h.resolveAssignees(c, &project.Team, req.Assignees)
	if !ok {
		return
	}

	task := models.Task{
		ID:        uuid.NewString(),
		Title:     req.Title,
		ProjectID: project.ID,
		Assignees: assignees,
		Status:    status,
		CreatedBy: p.UserID,
	}
	if err := h.db.Omit("Project", "Assignees.*").Create(&task).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	task.Project = project

	h.recorder.Record(models.ActivityTaskCreated, p.UserID, "task", task.ID,
		fmt.Sprintf("Task %q was created in project %q", task.Title, project.Name))

	c.JSON(http.StatusCreated, task)
}

// UpdateStatus handles PATCH /api/tasks/:id/status
// Admin and project managers may move any task; a team member only tasks
// they are assigned to. All six directed transitions among the three states
// are legal, and setting the current status again is a no-op success.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: must be todo, in_progress or completed"})
		return
	}

	task, ok := h.loadTask(c, c.Param("id"))
	if !ok {
		return
	}

	if !authorize(c, p, policy.ActionUpdateTaskStatus, policy.Resource{TaskAssigneeIDs: task.AssigneeIDs()}) {
		return
	}

	// Single-column update keeps the write atomic at the row level;
	// concurrent writers resolve last-write-wins by commit order.
	if err := h.db.Model(&task).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	task.Status = req.Status

	h.recorder.Record(models.ActivityStatusChanged, p.UserID, "task", task.ID,
		fmt.Sprintf("Task %q moved to %s", task.Title, task.Status))

	c.JSON(http.StatusOK, task)
}

// Update handles PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionUpdateTask, policy.Resource{}) {
		return
	}

	task, ok := h.loadTask(c, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
			return
		}
		task.Title = *req.Title
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: must be todo, in_progress or completed"})
			return
		}
		task.Status = *req.Status
	}
	if req.Project != nil {
		project, ok := h.loadProject(c, *req.Project)
		if !ok {
			return
		}
		task.ProjectID = project.ID
		task.Project = project
	}

	if req.Assignees != nil {
		project, ok := h.loadProject(c, task.ProjectID)
		if !ok {
			return
		}
		assignees, ok := h.resolveAssignees(c, &project.Team, *req.Assignees)
		if !ok {
			return
		}
		if err := h.db.Model(&task).Association("Assignees").Replace(assignees); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
			return
		}
		task.Assignees = assignees
	}

	if err := h.db.Omit("Project", "Assignees").Save(&task).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityTaskUpdated, p.UserID, "task", task.ID,
		fmt.Sprintf("Task %q was updated", task.Title))

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionDeleteTask, policy.Resource{}) {
		return
	}

	task, ok := h.loadTask(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.db.Select("Assignees").Delete(&task).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	h.recorder.Record(models.ActivityTaskDeleted, p.UserID, "task", task.ID,
		fmt.Sprintf("Task %q was deleted", task.Title))

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      task.ID,
	})
}

// loadTask fetches a task with its assignee set and project, so responses
// built from it carry the same shape List and Create produce.
func (h *TaskHandler) loadTask(c *gin.Context, taskID string) (models.Task, bool) {
	var task models.Task
	err := h.db.Preload("Assignees").Preload("Project").Preload("Project.Team").
		Where("id = ?", taskID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return models.Task{}, false
	}
	return task, true
}

// loadProject resolves a project with its team roster.
func (h *TaskHandler) loadProject(c *gin.Context, projectID string) (models.Project, bool) {
	var project models.Project
	err := h.db.Preload("Team").Preload("Team.Members").Where("id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return models.Project{}, false
	}
	return project, true
}

// resolveAssignees checks each id against the team roster and returns the
// matching user rows. Eligibility is evaluated against the roster as it is
// right now; later roster changes do not re-validate existing assignments.
func (h *TaskHandler) resolveAssignees(c *gin.Context, team *models.Team, ids []string) ([]models.User, bool) {
	assignees := make([]models.User, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, m := range team.Members {
			if m.ID == id {
				assignees = append(assignees, m)
				found = true
				break
			}
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid assignees: user %s is not a member of the project's team", id),
			})
			return nil, false
		}
	}
	return assignees, true
}
