package models

import (
	"gorm.io/gorm"
)

// Team groups users; a user may belong to any number of teams. Team names
// are not unique.
type Team struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null"`
	Members []User `json:"members" gorm:"many2many:team_members"`
	gorm.Model
}

// TableName specifies the table name for Team Model
func (Team) TableName() string {
	return "teams"
}

// HasMember reports whether the given user id is on the team roster.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
