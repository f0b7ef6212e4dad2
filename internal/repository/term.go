package repository

import (
	"context"
	"errors"

	"astuceplus/internal/cache"
	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// TermRepository defines persistence operations for glossary terms.
type TermRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Term, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Term, error)
	List(ctx context.Context) ([]models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id uint) error
}

type termRepository struct {
	db *gorm.DB
}

// NewTermRepository returns a new TermRepository implementation.
func NewTermRepository(db *gorm.DB) TermRepository {
	return &termRepository{db: db}
}

func (r *termRepository) GetByID(ctx context.Context, id uint) (*models.Term, error) {
	var term models.Term
	if err := readDB(r.db).WithContext(ctx).First(&term, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Term", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &term, nil
}

func (r *termRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Term, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var terms []models.Term
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", ids).Find(&terms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return terms, nil
}

func (r *termRepository) List(ctx context.Context) ([]models.Term, error) {
	var terms []models.Term
	err := cache.Aside(ctx, cache.TermsAllKey, &terms, cache.TermsTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Order("term ASC").Find(&terms).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *termRepository) Create(ctx context.Context, term *models.Term) error {
	if err := r.db.WithContext(ctx).Create(term).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Term already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTerms(ctx)
	return nil
}

func (r *termRepository) Update(ctx context.Context, term *models.Term) error {
	if err := r.db.WithContext(ctx).Save(term).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Term already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTerms(ctx)
	return nil
}

func (r *termRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Term{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Term", id)
	}
	cache.InvalidateTerms(ctx)
	return nil
}
