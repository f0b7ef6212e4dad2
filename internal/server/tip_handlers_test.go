package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"astuceplus/internal/config"
	"astuceplus/internal/database"
	"astuceplus/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTipTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	s, err := NewServerWithDeps(&config.Config{JWTSecret: "test_secret"}, db, nil)
	require.NoError(t, err)
	return s, db
}

func seedTip(t *testing.T, db *gorm.DB, title string, valid bool) *models.Tip {
	t.Helper()
	tip := &models.Tip{
		Title:       title,
		Description: "How to " + title,
		Difficulty:  models.DifficultyDebutant,
		Valid:       valid,
		PublishedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(tip).Error)
	return tip
}

func seedMember(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGetTips_OnlyValidForAnonymous(t *testing.T) {
	s, db := setupTipTestServer(t)
	seedTip(t, db, "drafted tip", false)
	published := seedTip(t, db, "published tip", true)

	app := fiber.New()
	app.Get("/tips", s.GetTips)

	req := httptest.NewRequest(http.MethodGet, "/tips", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tips []models.Tip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tips))
	require.Len(t, tips, 1)
	assert.Equal(t, published.ID, tips[0].ID)
}

func TestGetTip_DraftHiddenFromAnonymous(t *testing.T) {
	s, db := setupTipTestServer(t)
	draft := seedTip(t, db, "draft", false)

	app := fiber.New()
	app.Get("/tips/:id", s.GetTip)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/tips/%d", draft.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTip_AnyMemberUnvalidatedUntilModerated(t *testing.T) {
	s, db := setupTipTestServer(t)
	member := seedMember(t, db, "dave", models.RoleInscrit)

	app := fiber.New()
	app.Post("/tips", func(c *fiber.Ctx) error {
		c.Locals("userID", member.ID)
		return s.CreateTip(c)
	})

	body, _ := json.Marshal(map[string]string{
		"title":       "Detacher une nappe",
		"description": "Tamponnez la tache avec du vinaigre blanc.",
		"difficulty":  "debutant",
	})
	req := httptest.NewRequest(http.MethodPost, "/tips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Tip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotNil(t, created.CreatorID)
	assert.Equal(t, member.ID, *created.CreatorID)

	var stored models.Tip
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.Valid, "a freshly created tip must wait for moderation")
}

func TestGetTips_NewestPublishedFirst(t *testing.T) {
	s, db := setupTipTestServer(t)

	older := &models.Tip{
		Title:       "older tip",
		Description: "published last week",
		Difficulty:  models.DifficultyDebutant,
		Valid:       true,
		PublishedAt: time.Now().UTC().Add(-7 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(older).Error)
	newer := &models.Tip{
		Title:       "newer tip",
		Description: "published today",
		Difficulty:  models.DifficultyDebutant,
		Valid:       true,
		PublishedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(newer).Error)

	app := fiber.New()
	app.Get("/tips", s.GetTips)

	req := httptest.NewRequest(http.MethodGet, "/tips", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tips []models.Tip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tips))
	require.Len(t, tips, 2)
	assert.Equal(t, newer.ID, tips[0].ID)
	assert.Equal(t, older.ID, tips[1].ID)
}

func TestRateTip_UpdatesAggregates(t *testing.T) {
	s, db := setupTipTestServer(t)
	tip := seedTip(t, db, "rateable", true)
	alice := seedMember(t, db, "alice", models.RoleInscrit)
	bob := seedMember(t, db, "bob", models.RoleInscrit)

	app := fiber.New()
	caller := alice.ID
	app.Post("/tips/:id/rate", func(c *fiber.Ctx) error {
		c.Locals("userID", caller)
		return s.RateTip(c)
	})

	rate := func(note int) int {
		body, _ := json.Marshal(map[string]int{"note": note})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tips/%d/rate", tip.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusCreated, rate(5))
	caller = bob.ID
	assert.Equal(t, http.StatusCreated, rate(3))

	var refreshed models.Tip
	require.NoError(t, db.First(&refreshed, tip.ID).Error)
	assert.Equal(t, 2, refreshed.VoteCount)
	assert.InDelta(t, 80.0, refreshed.ReliabilityScore, 0.01)

	// Second vote from the same user is a conflict.
	assert.Equal(t, http.StatusConflict, rate(1))

	// Out-of-range note is rejected before touching the database.
	caller = alice.ID
	assert.Equal(t, http.StatusBadRequest, rate(6))
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	s, db := setupTipTestServer(t)
	tip := seedTip(t, db, "favorite me", true)
	user := seedMember(t, db, "carol", models.RoleInscrit)

	app := fiber.New()
	app.Post("/tips/:id/favorite", func(c *fiber.Ctx) error {
		c.Locals("userID", user.ID)
		return s.ToggleFavorite(c)
	})

	toggle := func() map[string]interface{} {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tips/%d/favorite", tip.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	favorites := func() int64 {
		var count int64
		require.NoError(t, db.Model(&models.Favorite{}).
			Where("user_id = ? AND tip_id = ?", user.ID, tip.ID).Count(&count).Error)
		return count
	}

	assert.Equal(t, "added", toggle()["status"])
	assert.Equal(t, int64(1), favorites())
	assert.Equal(t, "removed", toggle()["status"])
	assert.Equal(t, int64(0), favorites())
	assert.Equal(t, "added", toggle()["status"])
	assert.Equal(t, int64(1), favorites())
}

func TestSearchTips_RequiresQuery(t *testing.T) {
	s, _ := setupTipTestServer(t)

	app := fiber.New()
	app.Get("/tips/search", s.SearchTips)

	req := httptest.NewRequest(http.MethodGet, "/tips/search", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchTips_CaseInsensitiveMatch(t *testing.T) {
	s, db := setupTipTestServer(t)
	seedTip(t, db, "Conserver le BASILIC frais", true)
	seedTip(t, db, "unrelated", true)

	app := fiber.New()
	app.Get("/tips/search", s.SearchTips)

	req := httptest.NewRequest(http.MethodGet, "/tips/search?q=basilic", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tips []models.Tip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tips))
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0].Title, "BASILIC")
}
