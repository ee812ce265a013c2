package database

import (
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.TenantUser{},
		&models.Role{},
		&models.TenantRole{},
		&models.Resource{},
		&models.Action{},
		&models.Permission{},
		&models.TenantPermission{},
		&models.PageGroup{},
		&models.Page{},
		&models.ThreatEvent{},
		&models.AuditLog{},
	)
}
