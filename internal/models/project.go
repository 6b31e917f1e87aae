package models

import (
	"gorm.io/gorm"
)

// Project belongs to exactly one team. Its effective member set is the
// team's roster, derived at read time and never stored.
type Project struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	TeamID      string `json:"teamId" gorm:"column:team_id;not null;index"`
	Team        Team   `json:"team" gorm:"foreignKey:TeamID"`
	gorm.Model
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}
