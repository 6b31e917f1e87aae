package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/config"
	"team-collab-api/internal/database"
	"team-collab-api/internal/logger"
	"team-collab-api/internal/models"
	"team-collab-api/internal/realtime"
	"team-collab-api/internal/routes"
)

func main() {
	log := logger.Get()
	cfg := config.Get()

	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	if err := ensureInitialAdmin(db, cfg); err != nil {
		log.Error("failed to create initial admin", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	recorder := activity.NewRecorder(db, hub, log)

	router := routes.Setup(cfg, db, hub, recorder)

	log.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// ensureInitialAdmin seeds an admin account on first start so an empty
// database is usable without a manual insert.
func ensureInitialAdmin(db *gorm.DB, cfg config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:       uuid.NewString(),
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Get().Info("created initial admin", "email", admin.Email)
	return nil
}
