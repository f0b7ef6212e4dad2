// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"astuceplus/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTips     int
	ShouldClean bool
	// PresetPath points to an optional YAML preset; when empty the built-in
	// demo preset is used.
	PresetPath string
	DryRun     bool
	SkipBcrypt bool
}

// Preset describes the fixed vocabulary seeded before generated content:
// categories, glossary terms, and a few curated tips.
type Preset struct {
	Categories []string     `yaml:"categories"`
	Terms      []PresetTerm `yaml:"terms"`
	Tips       []PresetTip  `yaml:"tips"`
}

// PresetTerm is one glossary entry in a preset file.
type PresetTerm struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

// PresetTip is one curated tip in a preset file.
type PresetTip struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Source      string `yaml:"source"`
	Difficulty  string `yaml:"difficulty"`
	Category    string `yaml:"category"`
}

// DefaultPreset returns the built-in demo vocabulary.
func DefaultPreset() Preset {
	return Preset{
		Categories: []string{
			"Cuisine", "Maison", "Jardinage", "Bricolage", "Informatique",
			"Santé", "Économies", "Voyage",
		},
		Terms: []PresetTerm{
			{Term: "blanchir", Definition: "Plonger brièvement un aliment dans l'eau bouillante avant de le refroidir."},
			{Term: "compostage", Definition: "Décomposition contrôlée de matières organiques en amendement pour le sol."},
			{Term: "chevilles molly", Definition: "Chevilles à expansion pour fixer des charges dans les cloisons creuses."},
			{Term: "paillage", Definition: "Couverture du sol qui limite l'évaporation et les mauvaises herbes."},
		},
		Tips: []PresetTip{
			{
				Title:       "Conserver le basilic frais plus longtemps",
				Description: "Placer les tiges dans un verre d'eau à température ambiante, comme un bouquet. Éviter le réfrigérateur qui noircit les feuilles.",
				Difficulty:  "debutant",
				Category:    "Cuisine",
			},
			{
				Title:       "Détartrer une bouilloire au vinaigre blanc",
				Description: "Remplir à moitié de vinaigre blanc, porter à ébullition, laisser agir une heure puis rincer deux fois.",
				Difficulty:  "debutant",
				Category:    "Maison",
			},
			{
				Title:       "Pailler les tomates contre la sécheresse",
				Description: "Étaler 5 cm de tontes séchées au pied des plants. Le sol reste frais et l'arrosage peut être divisé par deux.",
				Difficulty:  "intermediaire",
				Category:    "Jardinage",
			},
		},
	}
}

// LoadPreset reads a YAML preset from disk.
func LoadPreset(path string) (Preset, error) {
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied path
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	var preset Preset
	if err := yaml.Unmarshal(raw, &preset); err != nil {
		return Preset{}, fmt.Errorf("parse preset: %w", err)
	}
	if len(preset.Categories) == 0 {
		return Preset{}, fmt.Errorf("preset defines no categories")
	}
	return preset, nil
}

// Seed populates the database with demo data: a moderator account, regular
// members, the preset vocabulary, published tips with ratings and favorites,
// and a small review queue of propositions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d tips...", opts.NumUsers, opts.NumTips)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	preset := DefaultPreset()
	if opts.PresetPath != "" {
		loaded, err := LoadPreset(opts.PresetPath)
		if err != nil {
			return err
		}
		preset = loaded
	}

	factory := NewFactory(db, SeedOptions{DryRun: opts.DryRun, SkipBcrypt: opts.SkipBcrypt})

	_, users, err := createAccounts(db, factory, opts)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d accounts (1 moderator)", len(users)+1)

	categories, err := createVocabulary(factory, preset)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary: %w", err)
	}
	log.Printf("created %d categories and %d terms", len(categories), len(preset.Terms))

	tips, err := createTips(factory, preset, categories, users, opts)
	if err != nil {
		return fmt.Errorf("failed to create tips: %w", err)
	}
	log.Printf("created %d tips", len(tips))

	if !opts.DryRun {
		if err := createEngagement(factory, users, tips); err != nil {
			return fmt.Errorf("failed to create ratings and favorites: %w", err)
		}
		if err := createReviewQueue(factory, users); err != nil {
			return fmt.Errorf("failed to create propositions: %w", err)
		}
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE search_logs, favorites, ratings, validations,
		proposition_terms, proposition_categories, propositions,
		tip_terms, tip_categories, tip_images, tips,
		terms, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createAccounts(db *gorm.DB, factory *Factory, opts Options) (*models.User, []*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	password := string(hashed)
	if opts.SkipBcrypt {
		password = "password123"
	}

	// A stable moderator account for local review workflows.
	moderator := &models.User{
		Username: "moderateur",
		Email:    "moderateur@example.com",
		Password: password,
		FullName: "Compte Modération",
		Role:     models.RoleModerateur,
		IsStaff:  true,
	}
	if !opts.DryRun {
		if err := db.Where(models.User{Username: moderator.Username}).
			FirstOrCreate(moderator).Error; err != nil {
			return nil, nil, err
		}
	}

	count := opts.NumUsers
	if count <= 0 {
		count = 10
	}
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			// Unique collisions from generated usernames are skipped.
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, nil, fmt.Errorf("no users could be created")
	}
	return moderator, users, nil
}

func createVocabulary(factory *Factory, preset Preset) (map[string]*models.Category, error) {
	categories := make(map[string]*models.Category, len(preset.Categories))
	for _, name := range preset.Categories {
		category, err := factory.CreateCategory(name)
		if err != nil {
			return nil, err
		}
		categories[name] = category
	}
	for _, entry := range preset.Terms {
		if _, err := factory.CreateTerm(entry.Term, entry.Definition); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func createTips(factory *Factory, preset Preset,
	categories map[string]*models.Category, users []*models.User, opts Options) ([]*models.Tip, error) {

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	tips := make([]*models.Tip, 0, len(preset.Tips)+opts.NumTips)

	// Curated preset tips first.
	for _, curated := range preset.Tips {
		creator := users[r.Intn(len(users))]
		tip, err := factory.CreateTip(creator, func(t *models.Tip) {
			t.Title = curated.Title
			t.Description = curated.Description
			t.Source = curated.Source
			if curated.Difficulty != "" {
				t.Difficulty = models.Difficulty(curated.Difficulty)
			}
			if category, ok := categories[curated.Category]; ok {
				t.Categories = []models.Category{*category}
			}
		})
		if err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}

	// Then generated filler.
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	for i := 0; i < opts.NumTips; i++ {
		creator := users[r.Intn(len(users))]
		category := categories[names[r.Intn(len(names))]]
		tip, err := factory.CreateTip(creator, func(t *models.Tip) {
			t.Categories = []models.Category{*category}
		})
		if err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}

	return tips, nil
}

func createEngagement(factory *Factory, users []*models.User, tips []*models.Tip) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, tip := range tips {
		raters := r.Intn(len(users)) / 2
		for i := 0; i < raters; i++ {
			// Unique constraint makes repeat raters a no-op failure; skip them.
			_ = factory.CreateRating(users[(i*7+int(tip.ID))%len(users)], tip, r.Intn(5)+1)
		}
		if r.Intn(3) == 0 {
			_ = factory.CreateFavorite(users[r.Intn(len(users))], tip)
		}
	}
	return nil
}

func createReviewQueue(factory *Factory, users []*models.User) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	pending := 3 + r.Intn(3)
	for i := 0; i < pending; i++ {
		if _, err := factory.CreateProposition(users[r.Intn(len(users))]); err != nil {
			return err
		}
	}
	return nil
}
