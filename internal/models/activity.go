package models

import (
	"time"
)

// Activity event kinds, one per mutating operation.
const (
	ActivityTeamCreated    = "team_created"
	ActivityMemberAdded    = "member_added"
	ActivityMemberRemoved  = "member_removed"
	ActivityProjectCreated = "project_created"
	ActivityProjectUpdated = "project_updated"
	ActivityProjectDeleted = "project_deleted"
	ActivityTaskCreated    = "task_created"
	ActivityTaskUpdated    = "task_updated"
	ActivityTaskDeleted    = "task_deleted"
	ActivityStatusChanged  = "task_status_changed"
	ActivityUserRoleSet    = "user_role_changed"
	ActivityUserDeleted    = "user_deleted"
)

// ActivityEvent is an immutable record of a completed mutation. It is stored
// for the pull-based history endpoint and pushed to every live session.
type ActivityEvent struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Kind        string    `json:"kind" gorm:"not null;index"`
	ActorID     string    `json:"actorId" gorm:"column:actor_id;index"`
	SubjectType string    `json:"subjectType" gorm:"column:subject_type"`
	SubjectID   string    `json:"subjectId" gorm:"column:subject_id"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name for ActivityEvent Model
func (ActivityEvent) TableName() string {
	return "activity_events"
}
