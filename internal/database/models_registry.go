package database

import "astuceplus/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Term{},
		&models.Tip{},
		&models.TipImage{},
		&models.Proposition{},
		&models.Validation{},
		&models.Rating{},
		&models.Favorite{},
		&models.SearchLog{},
	}
}
