package service

import (
	"context"
	"errors"
	"testing"

	"astuceplus/internal/models"
	"astuceplus/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tipRepoStub is a stub for repository.TipRepository.
type tipRepoStub struct {
	createFn            func(context.Context, *models.Tip) error
	getByIDFn           func(context.Context, uint, uint) (*models.Tip, error)
	listFn              func(context.Context, repository.TipFilter, int, int, uint) ([]*models.Tip, error)
	searchFn            func(context.Context, string, repository.TipFilter, int, int, uint) ([]*models.Tip, error)
	updateFn            func(context.Context, *models.Tip) error
	replaceCategoriesFn func(context.Context, *models.Tip, []models.Category) error
	replaceTermsFn      func(context.Context, *models.Tip, []models.Term) error
	deleteFn            func(context.Context, uint) error
}

func (s *tipRepoStub) Create(ctx context.Context, tip *models.Tip) error {
	return s.createFn(ctx, tip)
}
func (s *tipRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Tip, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *tipRepoStub) List(ctx context.Context, filter repository.TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error) {
	return s.listFn(ctx, filter, limit, offset, currentUserID)
}
func (s *tipRepoStub) Search(ctx context.Context, query string, filter repository.TipFilter, limit, offset int, currentUserID uint) ([]*models.Tip, error) {
	return s.searchFn(ctx, query, filter, limit, offset, currentUserID)
}
func (s *tipRepoStub) Update(ctx context.Context, tip *models.Tip) error {
	return s.updateFn(ctx, tip)
}
func (s *tipRepoStub) ReplaceCategories(ctx context.Context, tip *models.Tip, categories []models.Category) error {
	return s.replaceCategoriesFn(ctx, tip, categories)
}
func (s *tipRepoStub) ReplaceTerms(ctx context.Context, tip *models.Tip, terms []models.Term) error {
	return s.replaceTermsFn(ctx, tip, terms)
}
func (s *tipRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTipRepo() *tipRepoStub {
	return &tipRepoStub{
		createFn:  func(_ context.Context, _ *models.Tip) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Tip, error) { return &models.Tip{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.TipFilter, _, _ int, _ uint) ([]*models.Tip, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _ repository.TipFilter, _, _ int, _ uint) ([]*models.Tip, error) {
			return nil, nil
		},
		updateFn:            func(_ context.Context, _ *models.Tip) error { return nil },
		replaceCategoriesFn: func(_ context.Context, _ *models.Tip, _ []models.Category) error { return nil },
		replaceTermsFn:      func(_ context.Context, _ *models.Tip, _ []models.Term) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	getByIDsFn func(context.Context, []uint) ([]models.Category, error)
}

func (s *categoryRepoStub) GetByID(_ context.Context, id uint) (*models.Category, error) {
	return &models.Category{ID: id}, nil
}
func (s *categoryRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *categoryRepoStub) List(_ context.Context) ([]models.Category, error) { return nil, nil }
func (s *categoryRepoStub) Create(_ context.Context, _ *models.Category) error { return nil }
func (s *categoryRepoStub) Update(_ context.Context, _ *models.Category) error { return nil }
func (s *categoryRepoStub) Delete(_ context.Context, _ uint) error { return nil }

// termRepoStub is a stub for repository.TermRepository.
type termRepoStub struct {
	getByIDsFn func(context.Context, []uint) ([]models.Term, error)
}

func (s *termRepoStub) GetByID(_ context.Context, id uint) (*models.Term, error) {
	return &models.Term{ID: id}, nil
}
func (s *termRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Term, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *termRepoStub) List(_ context.Context) ([]models.Term, error) { return nil, nil }
func (s *termRepoStub) Create(_ context.Context, _ *models.Term) error { return nil }
func (s *termRepoStub) Update(_ context.Context, _ *models.Term) error { return nil }
func (s *termRepoStub) Delete(_ context.Context, _ uint) error { return nil }

// ratingRepoStub is a stub for repository.RatingRepository.
type ratingRepoStub struct {
	getByUserAndTipFn func(context.Context, uint, uint) (*models.Rating, error)
	createFn          func(context.Context, *models.Rating) error
}

func (s *ratingRepoStub) GetByUserAndTip(ctx context.Context, userID, tipID uint) (*models.Rating, error) {
	return s.getByUserAndTipFn(ctx, userID, tipID)
}
func (s *ratingRepoStub) Create(ctx context.Context, rating *models.Rating) error {
	return s.createFn(ctx, rating)
}
func (s *ratingRepoStub) ListByTip(_ context.Context, _ uint, _, _ int) ([]models.Rating, error) {
	return nil, nil
}

// favoriteRepoStub is a stub for repository.FavoriteRepository.
type favoriteRepoStub struct {
	toggleFn func(context.Context, uint, uint) (bool, error)
}

func (s *favoriteRepoStub) Toggle(ctx context.Context, userID, tipID uint) (bool, error) {
	return s.toggleFn(ctx, userID, tipID)
}
func (s *favoriteRepoStub) ListTipsByUser(_ context.Context, _ uint, _, _ int) ([]*models.Tip, error) {
	return nil, nil
}
func (s *favoriteRepoStub) IsFavorited(_ context.Context, _, _ uint) (bool, error) {
	return false, nil
}

// searchLogRepoStub is a stub for repository.SearchLogRepository.
type searchLogRepoStub struct {
	createFn func(context.Context, *models.SearchLog) error
}

func (s *searchLogRepoStub) Create(ctx context.Context, log *models.SearchLog) error {
	return s.createFn(ctx, log)
}
func (s *searchLogRepoStub) ListByUser(_ context.Context, _ uint, _, _ int) ([]models.SearchLog, error) {
	return nil, nil
}

func newTestTipService(tipRepo *tipRepoStub, ratingRepo *ratingRepoStub, favoriteRepo *favoriteRepoStub, searchLogRepo *searchLogRepoStub) *TipService {
	return NewTipService(
		tipRepo,
		&categoryRepoStub{getByIDsFn: func(_ context.Context, ids []uint) ([]models.Category, error) {
			out := make([]models.Category, len(ids))
			for i, id := range ids {
				out[i] = models.Category{ID: id}
			}
			return out, nil
		}},
		&termRepoStub{getByIDsFn: func(_ context.Context, ids []uint) ([]models.Term, error) {
			out := make([]models.Term, len(ids))
			for i, id := range ids {
				out[i] = models.Term{ID: id}
			}
			return out, nil
		}},
		ratingRepo,
		favoriteRepo,
		searchLogRepo,
	)
}

func TestTipService_CreateTip_Validation(t *testing.T) {
	svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, &favoriteRepoStub{}, &searchLogRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateTipInput
		msg   string
	}{
		{"Missing Title", CreateTipInput{Description: "desc"}, "Title is required"},
		{"Missing Description", CreateTipInput{Title: "t"}, "Description is required"},
		{"Invalid Difficulty", CreateTipInput{Title: "t", Description: "d", Difficulty: "impossible"}, "Invalid difficulty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTip(ctx, tt.input)
			require.Error(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Contains(t, appErr.Message, tt.msg)
		})
	}
}

func TestTipService_CreateTip_DefaultsDifficulty(t *testing.T) {
	var created *models.Tip
	tipRepo := noopTipRepo()
	tipRepo.createFn = func(_ context.Context, tip *models.Tip) error {
		created = tip
		return nil
	}
	svc := newTestTipService(tipRepo, &ratingRepoStub{}, &favoriteRepoStub{}, &searchLogRepoStub{})

	_, err := svc.CreateTip(context.Background(), CreateTipInput{
		CreatorID:   4,
		Title:       "Descaling a kettle",
		Description: "Use white vinegar.",
		CategoryIDs: []uint{1, 2},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.DifficultyDebutant, created.Difficulty)
	assert.False(t, created.Valid)
	assert.Len(t, created.Categories, 2)
	require.NotNil(t, created.CreatorID)
	assert.Equal(t, uint(4), *created.CreatorID)
}

func TestTipService_RateTip(t *testing.T) {
	t.Run("Note Out Of Range", func(t *testing.T) {
		svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, &favoriteRepoStub{}, &searchLogRepoStub{})
		for _, note := range []int{0, 6, -1} {
			_, err := svc.RateTip(context.Background(), RateTipInput{UserID: 1, TipID: 1, Note: note})
			require.Error(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		}
	})

	t.Run("Duplicate Rating Is Conflict", func(t *testing.T) {
		ratingRepo := &ratingRepoStub{
			getByUserAndTipFn: func(_ context.Context, _, _ uint) (*models.Rating, error) {
				return &models.Rating{ID: 12, Note: 3}, nil
			},
		}
		svc := newTestTipService(noopTipRepo(), ratingRepo, &favoriteRepoStub{}, &searchLogRepoStub{})

		_, err := svc.RateTip(context.Background(), RateTipInput{UserID: 1, TipID: 1, Note: 4})
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("Success Stores Rating", func(t *testing.T) {
		var stored *models.Rating
		ratingRepo := &ratingRepoStub{
			getByUserAndTipFn: func(_ context.Context, _, _ uint) (*models.Rating, error) { return nil, nil },
			createFn: func(_ context.Context, rating *models.Rating) error {
				stored = rating
				return nil
			},
		}
		svc := newTestTipService(noopTipRepo(), ratingRepo, &favoriteRepoStub{}, &searchLogRepoStub{})

		_, err := svc.RateTip(context.Background(), RateTipInput{UserID: 9, TipID: 5, Note: 5, Comment: "works"})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint(9), stored.UserID)
		assert.Equal(t, uint(5), stored.TipID)
		assert.Equal(t, 5, stored.Note)
	})
}

func TestTipService_ToggleFavorite(t *testing.T) {
	tests := []struct {
		name    string
		added   bool
		outcome string
	}{
		{"Added", true, "added"},
		{"Removed", false, "removed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favRepo := &favoriteRepoStub{
				toggleFn: func(_ context.Context, _, _ uint) (bool, error) { return tt.added, nil },
			}
			svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, favRepo, &searchLogRepoStub{})

			outcome, err := svc.ToggleFavorite(context.Background(), 1, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)
		})
	}
}

func TestTipService_SearchTips(t *testing.T) {
	t.Run("Empty Query", func(t *testing.T) {
		svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, &favoriteRepoStub{}, &searchLogRepoStub{})
		_, err := svc.SearchTips(context.Background(), SearchTipsInput{Query: "   "})
		require.Error(t, err)
	})

	t.Run("Authenticated Search Is Logged Before Querying", func(t *testing.T) {
		var order []string
		searchLogRepo := &searchLogRepoStub{
			createFn: func(_ context.Context, log *models.SearchLog) error {
				order = append(order, "log")
				assert.Equal(t, "vinaigre", log.Keywords)
				assert.Equal(t, uint(7), log.UserID)
				return nil
			},
		}
		tipRepo := noopTipRepo()
		tipRepo.searchFn = func(_ context.Context, query string, filter repository.TipFilter, _, _ int, _ uint) ([]*models.Tip, error) {
			order = append(order, "search")
			assert.True(t, filter.ValidOnly)
			return []*models.Tip{{ID: 1}}, nil
		}
		svc := newTestTipService(tipRepo, &ratingRepoStub{}, &favoriteRepoStub{}, searchLogRepo)

		tips, err := svc.SearchTips(context.Background(), SearchTipsInput{Query: "vinaigre", CurrentUserID: 7})
		require.NoError(t, err)
		assert.Len(t, tips, 1)
		assert.Equal(t, []string{"log", "search"}, order)
	})

	t.Run("Anonymous Search Is Not Logged", func(t *testing.T) {
		searchLogRepo := &searchLogRepoStub{
			createFn: func(_ context.Context, _ *models.SearchLog) error {
				t.Fatal("anonymous searches must not be logged")
				return nil
			},
		}
		svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, &favoriteRepoStub{}, searchLogRepo)

		_, err := svc.SearchTips(context.Background(), SearchTipsInput{Query: "vinaigre"})
		require.NoError(t, err)
	})

	t.Run("Log Failure Does Not Block Search", func(t *testing.T) {
		searchLogRepo := &searchLogRepoStub{
			createFn: func(_ context.Context, _ *models.SearchLog) error {
				return errors.New("disk full")
			},
		}
		svc := newTestTipService(noopTipRepo(), &ratingRepoStub{}, &favoriteRepoStub{}, searchLogRepo)

		_, err := svc.SearchTips(context.Background(), SearchTipsInput{Query: "vinaigre", CurrentUserID: 7})
		require.NoError(t, err)
	})

	t.Run("Staff Search Includes Drafts", func(t *testing.T) {
		tipRepo := noopTipRepo()
		tipRepo.searchFn = func(_ context.Context, _ string, filter repository.TipFilter, _, _ int, _ uint) ([]*models.Tip, error) {
			assert.False(t, filter.ValidOnly)
			return nil, nil
		}
		svc := newTestTipService(tipRepo, &ratingRepoStub{}, &favoriteRepoStub{}, &searchLogRepoStub{
			createFn: func(_ context.Context, _ *models.SearchLog) error { return nil },
		})

		_, err := svc.SearchTips(context.Background(), SearchTipsInput{Query: "vinaigre", CurrentUserID: 2, IncludeDrafts: true})
		require.NoError(t, err)
	})
}
