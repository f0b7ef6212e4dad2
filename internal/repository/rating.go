package repository

import (
	"context"
	"errors"

	"astuceplus/internal/cache"
	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines persistence operations for tip ratings.
type RatingRepository interface {
	GetByUserAndTip(ctx context.Context, userID, tipID uint) (*models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
	ListByTip(ctx context.Context, tipID uint, limit, offset int) ([]models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetByUserAndTip(ctx context.Context, userID, tipID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// Create inserts the rating and recomputes the tip's vote count and
// reliability score in the same transaction, so the stored aggregates
// never drift from the ratings table.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		return recomputeTipAggregates(tx, rating.TipID)
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You have already rated this tip")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTip(ctx, rating.TipID)
	cache.InvalidateTipsList(ctx)
	return nil
}

// recomputeTipAggregates rewrites the stored aggregates from the ratings table.
// Must run inside the transaction that modified the ratings.
func recomputeTipAggregates(tx *gorm.DB, tipID uint) error {
	return tx.Exec(
		`UPDATE tips SET
			vote_count = (SELECT COUNT(*) FROM ratings WHERE ratings.tip_id = ?),
			reliability_score = COALESCE((SELECT AVG(note) * 20 FROM ratings WHERE ratings.tip_id = ?), 0)
		 WHERE tips.id = ?`,
		tipID, tipID, tipID,
	).Error
}

func (r *ratingRepository) ListByTip(ctx context.Context, tipID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("tip_id = ?", tipID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}
