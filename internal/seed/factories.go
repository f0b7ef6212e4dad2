// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"astuceplus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes how factories generate and persist data.
type SeedOptions struct {
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// SkipBcrypt stores a plaintext password, for faster local seeding.
	SkipBcrypt bool
	// MaxDays caps how far in the past generated publish dates spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:     models.RoleInscrit,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s> role=%s", user.Username, user.Email, user.Role)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory constructs and persists a `models.Category` with the given name.
func (f *Factory) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}

	if f.opts.DryRun {
		f.nextID++
		category.ID = f.nextID
		log.Printf("[dry-run] CreateCategory: %s", name)
		return category, nil
	}

	if err := f.db.Where(models.Category{Name: name}).FirstOrCreate(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTerm constructs and persists a glossary `models.Term`.
func (f *Factory) CreateTerm(term, definition string) (*models.Term, error) {
	entry := &models.Term{Term: term, Definition: definition}
	if entry.Definition == "" {
		entry.Definition = gofakeit.Sentence(12)
	}

	if f.opts.DryRun {
		f.nextID++
		entry.ID = f.nextID
		log.Printf("[dry-run] CreateTerm: %s", term)
		return entry, nil
	}

	if err := f.db.Where(models.Term{Term: term}).FirstOrCreate(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateTip constructs and persists a published `models.Tip` credited to the
// given creator.
func (f *Factory) CreateTip(creator *models.User, overrides ...func(*models.Tip)) (*models.Tip, error) {
	difficulties := []models.Difficulty{
		models.DifficultyDebutant,
		models.DifficultyIntermediaire,
		models.DifficultyExpert,
	}
	tip := &models.Tip{
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 3, 5, "\n"),
		Source:      gofakeit.URL(),
		Difficulty:  difficulties[rand.Intn(len(difficulties))],
		Valid:       true,
		CreatorID:   &creator.ID,
		PublishedAt: f.spreadTimestamp(),
	}

	for _, override := range overrides {
		override(tip)
	}

	if f.opts.DryRun {
		f.nextID++
		tip.ID = f.nextID
		log.Printf("[dry-run] CreateTip: creator=%d title=%q", creator.ID, tip.Title)
		return tip, nil
	}

	if err := f.db.Create(tip).Error; err != nil {
		return nil, err
	}
	return tip, nil
}

// CreateTipsBatch persists multiple tips in a single DB call when possible.
func (f *Factory) CreateTipsBatch(tips []*models.Tip) error {
	if f.opts.DryRun {
		for _, tip := range tips {
			f.nextID++
			tip.ID = f.nextID
		}
		log.Printf("[dry-run] CreateTipsBatch: %d tips (no DB write)", len(tips))
		return nil
	}
	return f.db.Create(&tips).Error
}

// CreateRating persists a rating from `user` on `tip` and recomputes the
// tip's denormalized aggregates the same way the API does.
func (f *Factory) CreateRating(user *models.User, tip *models.Tip, note int) error {
	if note < 1 || note > 5 {
		note = gofakeit.Number(1, 5)
	}
	rating := &models.Rating{
		Note:    note,
		Comment: gofakeit.Sentence(8),
		UserID:  user.ID,
		TipID:   tip.ID,
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateRating: user=%d tip=%d note=%d", user.ID, tip.ID, note)
		return nil
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE tips SET vote_count = (SELECT COUNT(*) FROM ratings WHERE ratings.tip_id = ?), `+
				`reliability_score = COALESCE((SELECT AVG(note) * 20 FROM ratings WHERE ratings.tip_id = ?), 0) `+
				`WHERE tips.id = ?`,
			tip.ID, tip.ID, tip.ID,
		).Error
	})
}

// CreateFavorite persists a favorite from `user` on `tip`.
func (f *Factory) CreateFavorite(user *models.User, tip *models.Tip) error {
	favorite := &models.Favorite{
		UserID: user.ID,
		TipID:  tip.ID,
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFavorite: user=%d tip=%d", user.ID, tip.ID)
		return nil
	}
	return f.db.Create(favorite).Error
}

// CreateProposition constructs and persists a pending `models.Proposition`
// submitted by the given user.
func (f *Factory) CreateProposition(user *models.User, overrides ...func(*models.Proposition)) (*models.Proposition, error) {
	proposition := &models.Proposition{
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 2, 5, "\n"),
		Source:      gofakeit.URL(),
		Difficulty:  models.DifficultyDebutant,
		Status:      models.PropositionStatusEnAttente,
		UserID:      user.ID,
	}

	for _, override := range overrides {
		override(proposition)
	}

	if f.opts.DryRun {
		f.nextID++
		proposition.ID = f.nextID
		log.Printf("[dry-run] CreateProposition: user=%d title=%q", user.ID, proposition.Title)
		return proposition, nil
	}

	if err := f.db.Create(proposition).Error; err != nil {
		return nil, err
	}
	return proposition, nil
}

// spreadTimestamp returns a timestamp spread over the recent past so seeded
// feeds look organic instead of all landing on the same instant.
func (f *Factory) spreadTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
