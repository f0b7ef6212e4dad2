package repository

import (
	"context"

	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// SearchLogRepository records the keywords of authenticated searches.
type SearchLogRepository interface {
	Create(ctx context.Context, log *models.SearchLog) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.SearchLog, error)
}

type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository returns a new SearchLogRepository implementation.
func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

func (r *searchLogRepository) Create(ctx context.Context, log *models.SearchLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *searchLogRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.SearchLog, error) {
	var logs []models.SearchLog
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return logs, nil
}
