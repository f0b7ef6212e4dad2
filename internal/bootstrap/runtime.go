package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"astuceplus/internal/cache"
	"astuceplus/internal/config"
	"astuceplus/internal/database"
	"astuceplus/internal/models"
	"astuceplus/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedVocabulary creates the built-in categories and glossary terms when
	// they are missing. Safe to run on every start.
	SeedVocabulary bool
}

// InitRuntime connects to DB and Redis and optionally seeds the built-in
// vocabulary.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevModerator(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development moderator: %w", err)
	}

	if opts.SeedVocabulary {
		if err := seedVocabulary(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in vocabulary: %w", err)
		}
	}

	return db, r, nil
}

// seedVocabulary creates the default categories and terms if absent. Tips,
// ratings, and the rest of the demo dataset stay behind the explicit seed
// command.
func seedVocabulary(db *gorm.DB) error {
	factory := seed.NewFactory(db, seed.SeedOptions{})
	preset := seed.DefaultPreset()
	for _, name := range preset.Categories {
		if _, err := factory.CreateCategory(name); err != nil {
			return err
		}
	}
	for _, term := range preset.Terms {
		if _, err := factory.CreateTerm(term.Term, term.Definition); err != nil {
			return err
		}
	}
	return nil
}

func ensureDevModerator(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapModerator {
		return nil
	}

	username := strings.TrimSpace(cfg.DevModeratorUsername)
	if username == "" {
		username = "astuce_moderateur"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevModeratorEmail))
	if email == "" {
		email = "moderateur@astuceplus.local"
	}
	password := cfg.DevModeratorPassword
	if password == "" {
		return fmt.Errorf("DEV_MODERATOR_PASSWORD must be set when DEV_BOOTSTRAP_MODERATOR is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash moderator password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:       1,
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				Role:     models.RoleModerateur,
				IsStaff:  true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"role": string(models.RoleModerateur), "is_staff": true}
			if cfg.DevModeratorForceCredential {
				updates["username"] = username
				updates["email"] = email
				updates["password"] = string(hashedPassword)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", 1).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Ensure users ID sequence is not behind explicit ID insertion.
		// This is PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	log.Printf("development moderator bootstrap ensured for user ID 1 (%s)", email)
	return nil
}
