package repository

import (
	"context"

	"astuceplus/internal/cache"
	"astuceplus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines persistence operations for favorites.
type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, tipID uint) (added bool, err error)
	ListTipsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, error)
	IsFavorited(ctx context.Context, userID, tipID uint) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Toggle adds the favorite if absent, removes it if present, and reports
// which of the two happened. The insert relies on ON CONFLICT DO NOTHING
// so concurrent toggles cannot produce duplicates.
func (r *favoriteRepository) Toggle(ctx context.Context, userID, tipID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, TipID: tipID})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateTip(ctx, tipID)
		return true, nil
	}

	// Already favorited, remove it.
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		Delete(&models.Favorite{}).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidateTip(ctx, tipID)
	return false, nil
}

func (r *favoriteRepository) ListTipsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, error) {
	var tips []*models.Tip
	err := readDB(r.db).WithContext(ctx).
		Select("tips.*, true as favorited").
		Joins("JOIN favorites ON favorites.tip_id = tips.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Preload("Creator").
		Preload("Categories").
		Limit(limit).
		Offset(offset).
		Find(&tips).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tips, nil
}

func (r *favoriteRepository) IsFavorited(ctx context.Context, userID, tipID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
