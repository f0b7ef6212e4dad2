package repository

import (
	"context"

	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// ValidationRepository defines persistence operations for the moderation audit log.
type ValidationRepository interface {
	Create(ctx context.Context, validation *models.Validation) error
	ListByTip(ctx context.Context, tipID uint) ([]models.Validation, error)
	List(ctx context.Context, limit, offset int) ([]models.Validation, error)
}

type validationRepository struct {
	db *gorm.DB
}

// NewValidationRepository returns a new ValidationRepository implementation.
func NewValidationRepository(db *gorm.DB) ValidationRepository {
	return &validationRepository{db: db}
}

func (r *validationRepository) Create(ctx context.Context, validation *models.Validation) error {
	if err := r.db.WithContext(ctx).Create(validation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *validationRepository) ListByTip(ctx context.Context, tipID uint) ([]models.Validation, error) {
	var validations []models.Validation
	if err := readDB(r.db).WithContext(ctx).
		Preload("Moderator").
		Where("tip_id = ?", tipID).
		Order("created_at DESC").
		Find(&validations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return validations, nil
}

func (r *validationRepository) List(ctx context.Context, limit, offset int) ([]models.Validation, error) {
	var validations []models.Validation
	if err := readDB(r.db).WithContext(ctx).
		Preload("Moderator").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&validations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return validations, nil
}
