package repository

import (
	"context"
	"errors"

	"astuceplus/internal/models"
	"astuceplus/internal/observability"

	"gorm.io/gorm"
)

// PropositionRepository defines persistence operations for tip propositions.
type PropositionRepository interface {
	Create(ctx context.Context, proposition *models.Proposition) error
	GetByID(ctx context.Context, id uint) (*models.Proposition, error)
	List(ctx context.Context, status models.PropositionStatus, limit, offset int) ([]*models.Proposition, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Proposition, error)
	Update(ctx context.Context, proposition *models.Proposition) error
}

type propositionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPropositionRepository returns a new PropositionRepository implementation.
func NewPropositionRepository(db *gorm.DB) PropositionRepository {
	return &propositionRepository{db: db, log: observability.NewRepoLogger("propositions")}
}

func (r *propositionRepository) Create(ctx context.Context, proposition *models.Proposition) error {
	if err := r.db.WithContext(ctx).Create(proposition).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{
		"proposition_id": proposition.ID,
		"user_id":        proposition.UserID,
		"status":         proposition.Status,
	})
	return nil
}

func (r *propositionRepository) GetByID(ctx context.Context, id uint) (*models.Proposition, error) {
	var proposition models.Proposition
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Preload("Terms").
		Preload("Tip").
		First(&proposition, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Proposition", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &proposition, nil
}

func (r *propositionRepository) List(ctx context.Context, status models.PropositionStatus, limit, offset int) ([]*models.Proposition, error) {
	query := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Categories")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var propositions []*models.Proposition
	if err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&propositions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return propositions, nil
}

func (r *propositionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Proposition, error) {
	var propositions []*models.Proposition
	if err := readDB(r.db).WithContext(ctx).
		Preload("Categories").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&propositions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return propositions, nil
}

func (r *propositionRepository) Update(ctx context.Context, proposition *models.Proposition) error {
	if err := r.db.WithContext(ctx).Omit("Categories", "Terms", "Tip", "User").Save(proposition).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogMutation(ctx, "update", map[string]interface{}{
		"proposition_id": proposition.ID,
		"status":         proposition.Status,
	})
	return nil
}
