package database

import (
	"gorm.io/gorm"

	"github.com/shopstack/catalogd/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.CacheEntry{},
	)
}
