package database

import (
	"perch/internal/models"

	"gorm.io/gorm"
)

// AllModels is the single source of truth for schema migration order. Users
// come first so that foreign keys on posts and edges resolve.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Follow{},
		&models.Bird{},
		&models.UserBird{},
	}
}

// Migrate runs AutoMigrate over the full model registry.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
