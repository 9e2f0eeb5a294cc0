package initialize

import (
	"errors"
	"strings"

	"mygamelist/config"
	. "mygamelist/internal/models"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmin(db, config, log); err != nil {
		return log.Err("failed to initialize admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeAdmin creates the first administrator from ADMIN_* settings.
// Admin rights can only be granted by an admin, so a fresh install needs one.
func initializeAdmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.AdminEmail == "" {
		log.Info("ADMIN_EMAIL not set, skipping admin bootstrap")
		return nil
	}

	admin, err := BootstrapAdmin(config)
	if err != nil {
		return err
	}

	var existing User
	err = db.Where("LOWER(email) = ?", strings.ToLower(admin.Email)).First(&existing).Error
	if err == nil {
		log.Debug("Admin already exists", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	log.Info("Creating admin", "username", admin.Username, "email", admin.Email)
	return db.Create(admin).Error
}

// BootstrapAdmin builds the admin account described by config.
func BootstrapAdmin(config config.Config) (*User, error) {
	username := strings.TrimSpace(config.AdminUsername)
	if username == "" {
		username = "admin"
	}
	email := strings.TrimSpace(config.AdminEmail)

	if err := types.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := types.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := types.ValidatePassword("ADMIN_PASSWORD", config.AdminPassword); err != nil {
		return nil, err
	}

	admin := &User{Username: username, Email: email, IsAdmin: true}
	if err := admin.SetPassword(config.AdminPassword); err != nil {
		return nil, err
	}
	return admin, nil
}
