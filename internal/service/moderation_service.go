package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"astuceplus/internal/cache"
	"astuceplus/internal/models"
	"astuceplus/internal/observability"

	"gorm.io/gorm"
)

// ModerationService drives the proposition review workflow and tip validation.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// SubmitPropositionInput is the payload for submitting a tip proposition.
type SubmitPropositionInput struct {
	UserID      uint
	Title       string
	Description string
	Source      string
	Difficulty  models.Difficulty
	Image       string
	CategoryIDs []uint
	TermIDs     []uint
}

// TransitionInput is the payload for moving a proposition through review.
type TransitionInput struct {
	ModeratorID   uint
	PropositionID uint
	Status        models.PropositionStatus
	Comment       string
}

// ValidateTipInput is the payload for recording a direct moderation decision on a tip.
type ValidateTipInput struct {
	ModeratorID uint
	TipID       uint
	Status      models.ValidationStatus
	Comment     string
}

func (s *ModerationService) SubmitProposition(ctx context.Context, in SubmitPropositionInput) (*models.Proposition, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTipTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}

	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyDebutant
	}
	if !difficulty.Valid() {
		return nil, models.NewValidationError("Invalid difficulty")
	}

	categories, err := s.loadCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	terms, err := s.loadTerms(ctx, in.TermIDs)
	if err != nil {
		return nil, err
	}

	proposition := &models.Proposition{
		Title:       in.Title,
		Description: in.Description,
		Source:      in.Source,
		Difficulty:  difficulty,
		Image:       in.Image,
		Status:      models.PropositionStatusEnAttente,
		UserID:      in.UserID,
		Categories:  categories,
		Terms:       terms,
	}
	if err := s.db.WithContext(ctx).Create(proposition).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return proposition, nil
}

// Transition moves a proposition to the requested status. Acceptance creates
// the published tip, its moderation record, and the back-link in a single
// transaction; a failure at any point leaves the proposition untouched.
func (s *ModerationService) Transition(ctx context.Context, in TransitionInput) (*models.Proposition, error) {
	if !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid proposition status")
	}

	var proposition models.Proposition
	if err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Terms").
		First(&proposition, in.PropositionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Proposition", in.PropositionID)
		}
		return nil, models.NewInternalError(err)
	}

	if !proposition.Status.CanTransitionTo(in.Status) {
		return nil, models.NewValidationError(
			"Cannot transition proposition from '" + string(proposition.Status) + "' to '" + string(in.Status) + "'")
	}

	switch in.Status {
	case models.PropositionStatusAcceptee:
		if err := s.accept(ctx, &proposition, in); err != nil {
			return nil, err
		}
	default:
		proposition.Status = in.Status
		proposition.ModerationComment = in.Comment
		if err := s.db.WithContext(ctx).
			Omit("Categories", "Terms", "Tip", "User").
			Save(&proposition).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	observability.ModerationTransitions.WithLabelValues(string(in.Status)).Inc()
	return &proposition, nil
}

// accept publishes the proposition as a valid tip.
func (s *ModerationService) accept(ctx context.Context, proposition *models.Proposition, in TransitionInput) error {
	now := time.Now().UTC()
	moderatorID := in.ModeratorID
	creatorID := proposition.UserID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tip := &models.Tip{
			Title:       proposition.Title,
			Description: proposition.Description,
			Source:      proposition.Source,
			Difficulty:  proposition.Difficulty,
			Valid:       true,
			PublishedAt: now,
			ValidatedAt: &now,
			CreatorID:   &creatorID,
			Categories:  proposition.Categories,
			Terms:       proposition.Terms,
		}
		if err := tx.Create(tip).Error; err != nil {
			return err
		}

		validation := &models.Validation{
			Status:      models.ValidationStatusAcceptee,
			Comment:     in.Comment,
			ModeratorID: &moderatorID,
			TipID:       tip.ID,
		}
		if err := tx.Create(validation).Error; err != nil {
			return err
		}

		proposition.Status = models.PropositionStatusAcceptee
		proposition.ModerationComment = in.Comment
		proposition.TipID = &tip.ID
		proposition.Tip = tip
		return tx.Omit("Categories", "Terms", "Tip", "User").Save(proposition).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateTipsList(ctx)
	return nil
}

// ValidateTip records a direct moderation decision on an existing tip and
// flips its valid flag to match. Repeated decisions are allowed; the latest
// one wins and the full history stays in the validations table.
func (s *ModerationService) ValidateTip(ctx context.Context, in ValidateTipInput) (*models.Validation, error) {
	if !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid validation status")
	}

	var tip models.Tip
	if err := s.db.WithContext(ctx).First(&tip, in.TipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tip", in.TipID)
		}
		return nil, models.NewInternalError(err)
	}

	now := time.Now().UTC()
	moderatorID := in.ModeratorID
	validation := &models.Validation{
		Status:      in.Status,
		Comment:     in.Comment,
		ModeratorID: &moderatorID,
		TipID:       tip.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(validation).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"valid":        in.Status == models.ValidationStatusAcceptee,
			"validated_at": &now,
		}
		return tx.Model(&models.Tip{}).Where("id = ?", tip.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateTip(ctx, tip.ID)
	cache.InvalidateTipsList(ctx)
	observability.ModerationTransitions.WithLabelValues(string(in.Status)).Inc()
	return validation, nil
}

func (s *ModerationService) loadCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(categories) != len(ids) {
		return nil, models.NewValidationError("One or more categories do not exist")
	}
	return categories, nil
}

func (s *ModerationService) loadTerms(ctx context.Context, ids []uint) ([]models.Term, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var terms []models.Term
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&terms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(terms) != len(ids) {
		return nil, models.NewValidationError("One or more terms do not exist")
	}
	return terms, nil
}
