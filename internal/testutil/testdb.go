package testutil

import (
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"team-collab-api/internal/models"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Project{},
		&models.Task{},
		&models.ActivityEvent{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser creates a user with the given role. The password is "password".
func SeedUser(db *gorm.DB, name string, role models.Role) models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	user := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    name + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	db.Create(&user)
	return user
}

// SeedTeam creates a team with the given members.
func SeedTeam(db *gorm.DB, name string, members ...models.User) models.Team {
	team := models.Team{
		ID:      uuid.NewString(),
		Name:    name,
		Members: members,
	}
	db.Omit("Members.*").Create(&team)
	return team
}

// SeedProject creates a project under the given team.
func SeedProject(db *gorm.DB, name string, team models.Team) models.Project {
	project := models.Project{
		ID:     uuid.NewString(),
		Name:   name,
		TeamID: team.ID,
	}
	db.Create(&project)
	project.Team = team
	return project
}

// SeedTask creates a task in the given project with the given assignees.
func SeedTask(db *gorm.DB, title string, project models.Project, assignees ...models.User) models.Task {
	task := models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		ProjectID: project.ID,
		Assignees: assignees,
		Status:    models.StatusTodo,
	}
	db.Omit("Project", "Assignees.*").Create(&task)
	return task
}
