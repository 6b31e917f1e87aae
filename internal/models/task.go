package models

import (
	"gorm.io/gorm"
)

// TaskStatus represents the status of a task. The three states form a fully
// connected graph: any state may be set from any other, including
// completed back to todo.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the three known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Task represents a task in the system. Assignees are snapshotted at
// assignment time: later roster changes on the project's team do not alter
// the set.
type Task struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"not null"`
	ProjectID string     `json:"projectId" gorm:"column:project_id;not null;index"`
	Project   Project    `json:"project" gorm:"foreignKey:ProjectID"`
	Assignees []User     `json:"assignees" gorm:"many2many:task_assignees"`
	Status    TaskStatus `json:"status" gorm:"not null;default:'todo'"`
	CreatedBy string     `json:"createdBy" gorm:"column:created_by;index"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// IsAssigned reports whether the user id is in the assignee set. Matching is
// by id equality only; name-based matching is deliberately not supported.
func (t *Task) IsAssigned(userID string) bool {
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// AssigneeIDs returns the ids of the assignee set.
func (t *Task) AssigneeIDs() []string {
	ids := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}
