package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"astuceplus/internal/models"
	"astuceplus/internal/observability"
	"astuceplus/internal/repository"
)

// TipService implements tip creation, rating, favorites, and search.
type TipService struct {
	tipRepo       repository.TipRepository
	categoryRepo  repository.CategoryRepository
	termRepo      repository.TermRepository
	ratingRepo    repository.RatingRepository
	favoriteRepo  repository.FavoriteRepository
	searchLogRepo repository.SearchLogRepository
}

// CreateTipInput is the payload for creating a tip directly.
type CreateTipInput struct {
	CreatorID   uint
	Title       string
	Description string
	Source      string
	Difficulty  models.Difficulty
	CategoryIDs []uint
	TermIDs     []uint
}

// UpdateTipInput is the payload for editing an existing tip.
type UpdateTipInput struct {
	TipID       uint
	Title       string
	Description string
	Source      string
	Difficulty  models.Difficulty
	CategoryIDs []uint
	TermIDs     []uint
}

// RateTipInput is the payload for submitting a rating.
type RateTipInput struct {
	UserID               uint
	TipID                uint
	Note                 int
	PerceivedReliability *int
	Comment              string
}

// SearchTipsInput is the payload for searching tips.
type SearchTipsInput struct {
	Query         string
	CategoryID    uint
	Limit         int
	Offset        int
	CurrentUserID uint
	IncludeDrafts bool
}

// NewTipService returns a new TipService.
func NewTipService(
	tipRepo repository.TipRepository,
	categoryRepo repository.CategoryRepository,
	termRepo repository.TermRepository,
	ratingRepo repository.RatingRepository,
	favoriteRepo repository.FavoriteRepository,
	searchLogRepo repository.SearchLogRepository,
) *TipService {
	return &TipService{
		tipRepo:       tipRepo,
		categoryRepo:  categoryRepo,
		termRepo:      termRepo,
		ratingRepo:    ratingRepo,
		favoriteRepo:  favoriteRepo,
		searchLogRepo: searchLogRepo,
	}
}

const maxTipTitleLen = 200

func (s *TipService) CreateTip(ctx context.Context, in CreateTipInput) (*models.Tip, error) {
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

	categories, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	terms, err := s.resolveTerms(ctx, in.TermIDs)
	if err != nil {
		return nil, err
	}

	creatorID := in.CreatorID
	tip := &models.Tip{
		Title:       in.Title,
		Description: in.Description,
		Source:      in.Source,
		Difficulty:  difficulty,
		PublishedAt: time.Now().UTC(),
		CreatorID:   &creatorID,
		Categories:  categories,
		Terms:       terms,
	}
	if err := s.tipRepo.Create(ctx, tip); err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *TipService) UpdateTip(ctx context.Context, in UpdateTipInput) (*models.Tip, error) {
	tip, err := s.tipRepo.GetByID(ctx, in.TipID, 0)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > maxTipTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		tip.Title = in.Title
	}
	if in.Description != "" {
		tip.Description = in.Description
	}
	if in.Source != "" {
		tip.Source = in.Source
	}
	if in.Difficulty != "" {
		if !in.Difficulty.Valid() {
			return nil, models.NewValidationError("Invalid difficulty")
		}
		tip.Difficulty = in.Difficulty
	}

	if err := s.tipRepo.Update(ctx, tip); err != nil {
		return nil, err
	}

	if in.CategoryIDs != nil {
		categories, err := s.resolveCategories(ctx, in.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.tipRepo.ReplaceCategories(ctx, tip, categories); err != nil {
			return nil, err
		}
		tip.Categories = categories
	}
	if in.TermIDs != nil {
		terms, err := s.resolveTerms(ctx, in.TermIDs)
		if err != nil {
			return nil, err
		}
		if err := s.tipRepo.ReplaceTerms(ctx, tip, terms); err != nil {
			return nil, err
		}
		tip.Terms = terms
	}

	return tip, nil
}

// RateTip records a rating and returns the tip with refreshed aggregates.
func (s *TipService) RateTip(ctx context.Context, in RateTipInput) (*models.Tip, error) {
	if in.Note < 1 || in.Note > 5 {
		return nil, models.NewValidationError("Note must be between 1 and 5")
	}
	if in.PerceivedReliability != nil && (*in.PerceivedReliability < 0 || *in.PerceivedReliability > 100) {
		return nil, models.NewValidationError("Perceived reliability must be between 0 and 100")
	}

	if _, err := s.tipRepo.GetByID(ctx, in.TipID, 0); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index remains the authoritative guard
	// under concurrent submissions.
	existing, err := s.ratingRepo.GetByUserAndTip(ctx, in.UserID, in.TipID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("You have already rated this tip")
	}

	rating := &models.Rating{
		UserID:               in.UserID,
		TipID:                in.TipID,
		Note:                 in.Note,
		PerceivedReliability: in.PerceivedReliability,
		Comment:              in.Comment,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	observability.RatingsSubmitted.Observe(float64(in.Note))

	return s.tipRepo.GetByID(ctx, in.TipID, in.UserID)
}

// ToggleFavorite flips the caller's favorite on the tip and reports the outcome.
func (s *TipService) ToggleFavorite(ctx context.Context, userID, tipID uint) (string, error) {
	if _, err := s.tipRepo.GetByID(ctx, tipID, 0); err != nil {
		return "", err
	}

	added, err := s.favoriteRepo.Toggle(ctx, userID, tipID)
	if err != nil {
		return "", err
	}
	outcome := "removed"
	if added {
		outcome = "added"
	}
	observability.FavoriteToggles.WithLabelValues(outcome).Inc()
	return outcome, nil
}

// SearchTips logs the keywords for authenticated callers, then queries.
func (s *TipService) SearchTips(ctx context.Context, in SearchTipsInput) ([]*models.Tip, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	caller := "anonymous"
	if in.CurrentUserID != 0 {
		caller = "authenticated"
		// Keyword logging is best-effort; a logging failure must not block the search.
		if err := s.searchLogRepo.Create(ctx, &models.SearchLog{
			Keywords: query,
			UserID:   in.CurrentUserID,
		}); err != nil {
			slog.WarnContext(ctx, "search log write failed", "user_id", in.CurrentUserID, "err", err)
		}
	}
	observability.SearchesTotal.WithLabelValues(caller).Inc()

	filter := repository.TipFilter{
		CategoryID: in.CategoryID,
		ValidOnly:  !in.IncludeDrafts,
	}
	return s.tipRepo.Search(ctx, query, filter, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *TipService) resolveCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(ids) {
		return nil, models.NewValidationError("One or more categories do not exist")
	}
	return categories, nil
}

func (s *TipService) resolveTerms(ctx context.Context, ids []uint) ([]models.Term, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	terms, err := s.termRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(terms) != len(ids) {
		return nil, models.NewValidationError("One or more terms do not exist")
	}
	return terms, nil
}
