package repository

import (
	"context"
	"errors"
	"strings"

	"astuceplus/internal/cache"
	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// TipFilter narrows tip listing and search queries.
type TipFilter struct {
	CategoryID uint
	Difficulty models.Difficulty
	ValidOnly  bool
	Sort       string
}

// TipRepository defines persistence operations for tips.
type TipRepository interface {
	Create(ctx context.Context, tip *models.Tip) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tip, error)
	List(ctx context.Context, filter TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error)
	Search(ctx context.Context, query string, filter TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error)
	Update(ctx context.Context, tip *models.Tip) error
	ReplaceCategories(ctx context.Context, tip *models.Tip, categories []models.Category) error
	ReplaceTerms(ctx context.Context, tip *models.Tip, terms []models.Term) error
	Delete(ctx context.Context, id uint) error
}

type tipRepository struct {
	db *gorm.DB
}

// NewTipRepository returns a new TipRepository implementation.
func NewTipRepository(db *gorm.DB) TipRepository {
	return &tipRepository{db: db}
}

func (r *tipRepository) Create(ctx context.Context, tip *models.Tip) error {
	if err := r.db.WithContext(ctx).Create(tip).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTipsList(ctx)
	return nil
}

func (r *tipRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tip, error) {
	var tip models.Tip

	fetch := func() error {
		if err := r.applyTipDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("Creator").
			Preload("Categories").
			Preload("Terms").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			First(&tip, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tip", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.TipKey(id), &tip, cache.TipTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

func (r *tipRepository) List(ctx context.Context, filter TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error) {
	var tips []*models.Tip
	err := r.applyFilter(r.applyTipDetails(readDB(r.db).WithContext(ctx), currentUserID), filter).
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

func (r *tipRepository) Search(ctx context.Context, query string, filter TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error) {
	var tips []*models.Tip
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyFilter(r.applyTipDetails(readDB(r.db).WithContext(ctx), currentUserID), filter).
		Where("LOWER(tips.title) LIKE ? OR LOWER(tips.description) LIKE ?", like, like).
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

// applyFilter appends WHERE and ORDER BY clauses for the requested filter.
func (r *tipRepository) applyFilter(db *gorm.DB, filter TipFilter) *gorm.DB {
	if filter.ValidOnly {
		db = db.Where("tips.valid = ?", true)
	}
	if filter.Difficulty != "" {
		db = db.Where("tips.difficulty = ?", filter.Difficulty)
	}
	if filter.CategoryID != 0 {
		db = db.Joins("JOIN tip_categories ON tip_categories.tip_id = tips.id").
			Where("tip_categories.category_id = ?", filter.CategoryID)
	}

	switch filter.Sort {
	case "top":
		return db.Order("tips.reliability_score DESC, tips.published_at DESC")
	case "popular":
		return db.Order("tips.vote_count DESC, tips.published_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("tips.published_at DESC")
	}
}

// applyTipDetails adds a subquery to fetch the caller's favorite status in a single query.
func (r *tipRepository) applyTipDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("tips.*, EXISTS(SELECT 1 FROM favorites WHERE favorites.tip_id = tips.id AND favorites.user_id = ?) as favorited", currentUserID)
	}
	return db.Select("tips.*, false as favorited")
}

func (r *tipRepository) Update(ctx context.Context, tip *models.Tip) error {
	if err := r.db.WithContext(ctx).Omit("Categories", "Terms", "Images").Save(tip).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTip(ctx, tip.ID)
	cache.InvalidateTipsList(ctx)
	return nil
}

func (r *tipRepository) ReplaceCategories(ctx context.Context, tip *models.Tip, categories []models.Category) error {
	if err := r.db.WithContext(ctx).Model(tip).Association("Categories").Replace(categories); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTip(ctx, tip.ID)
	return nil
}

func (r *tipRepository) ReplaceTerms(ctx context.Context, tip *models.Tip, terms []models.Term) error {
	if err := r.db.WithContext(ctx).Model(tip).Association("Terms").Replace(terms); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTip(ctx, tip.ID)
	return nil
}

func (r *tipRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Tip{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Tip", id)
	}
	cache.InvalidateTip(ctx, id)
	cache.InvalidateTipsList(ctx)
	return nil
}
