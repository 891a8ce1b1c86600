package database

import "socialhub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before children so foreign keys resolve on every dialect.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Profile{},
		&models.Skill{},
		&models.Experience{},
		&models.Education{},
	}
}
