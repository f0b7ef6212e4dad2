package server

import (
	"astuceplus/internal/models"
	"astuceplus/internal/repository"
	"astuceplus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTips handles GET /api/tips
// @Summary List tips
// @Description List published tips with optional category, difficulty, and sort filters
// @Tags tips
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category_id query int false "Filter by category"
// @Param difficulty query string false "Filter by difficulty (debutant, intermediaire, expert)"
// @Param sort query string false "Sort order (top, popular)"
// @Success 200 {array} models.Tip
// @Router /tips [get]
func (s *Server) GetTips(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	filter := repository.TipFilter{
		CategoryID: uint(c.QueryInt("category_id")),
		Difficulty: models.Difficulty(c.Query("difficulty")),
		Sort:       c.Query("sort"),
		ValidOnly:  true,
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown difficulty level"))
	}

	// Only moderators may see unvalidated tips.
	if c.QueryBool("include_drafts") && userID != 0 {
		moderator, err := s.canModerate(c, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		filter.ValidOnly = !moderator
	}

	tips, err := s.tipRepo.List(ctx, filter, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.decorateTipMedia(tips...)
	return c.JSON(tips)
}

// GetTip handles GET /api/tips/:id
func (s *Server) GetTip(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	tip, err := s.tipRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	if !tip.Valid && !s.callerMayViewDraft(c, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("tip", id))
	}

	s.decorateTipMedia(tip)
	return c.JSON(tip)
}

// GetTipDetails handles GET /api/tips/:id/details. It returns the tip with
// its latest ratings and aggregate figures in a single payload.
func (s *Server) GetTipDetails(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	tip, err := s.tipRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if !tip.Valid && !s.callerMayViewDraft(c, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("tip", id))
	}

	ratings, err := s.ratingRepo.ListByTip(ctx, id, 10, 0)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	meanNote := 0.0
	if tip.VoteCount > 0 {
		meanNote = tip.ReliabilityScore / 20
	}

	s.decorateTipMedia(tip)
	return c.JSON(fiber.Map{
		"tip":          tip,
		"ratings":      ratings,
		"rating_count": tip.VoteCount,
		"mean_note":    meanNote,
		"favorited":    tip.Favorited,
	})
}

// CreateTip handles POST /api/tips. Any authenticated member may create a
// tip directly; it stays unvalidated until a moderator records an accepting
// validation.
func (s *Server) CreateTip(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      string `json:"source"`
		Difficulty  string `json:"difficulty"`
		CategoryIDs []uint `json:"category_ids"`
		TermIDs     []uint `json:"term_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tip, err := s.tipService.CreateTip(ctx, service.CreateTipInput{
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Difficulty:  models.Difficulty(req.Difficulty),
		CategoryIDs: req.CategoryIDs,
		TermIDs:     req.TermIDs,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.decorateTipMedia(tip)
	return c.Status(fiber.StatusCreated).JSON(tip)
}

// UpdateTip handles PUT /api/tips/:id (moderators only).
func (s *Server) UpdateTip(c *fiber.Ctx) error {
	ctx := c.Context()
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Source      string  `json:"source"`
		Difficulty  string  `json:"difficulty"`
		CategoryIDs *[]uint `json:"category_ids"`
		TermIDs     *[]uint `json:"term_ids"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateTipInput{
		TipID:       tipID,
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Difficulty:  models.Difficulty(req.Difficulty),
	}
	if req.CategoryIDs != nil {
		in.CategoryIDs = *req.CategoryIDs
	}
	if req.TermIDs != nil {
		in.TermIDs = *req.TermIDs
	}

	tip, err := s.tipService.UpdateTip(ctx, in)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.decorateTipMedia(tip)
	return c.JSON(tip)
}

// DeleteTip handles DELETE /api/tips/:id (moderators only).
func (s *Server) DeleteTip(c *fiber.Ctx) error {
	ctx := c.Context()
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tipRepo.Delete(ctx, tipID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RateTip handles POST /api/tips/:id/rate. The tip's vote count and
// reliability score are recomputed in the same transaction as the insert.
func (s *Server) RateTip(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Note                 int    `json:"note"`
		PerceivedReliability *int   `json:"perceived_reliability"`
		Comment              string `json:"comment"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tip, err := s.tipService.RateTip(ctx, service.RateTipInput{
		UserID:               userID,
		TipID:                tipID,
		Note:                 req.Note,
		PerceivedReliability: req.PerceivedReliability,
		Comment:              req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.decorateTipMedia(tip)
	return c.Status(fiber.StatusCreated).JSON(tip)
}

// ToggleFavorite handles POST /api/tips/:id/favorite
// This endpoint toggles the favorite status - if already favorited, it removes; otherwise it adds
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	outcome, err := s.tipService.ToggleFavorite(ctx, userID, tipID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"tip_id": tipID,
		"status": outcome,
	})
}

// GetMyFavorites handles GET /api/favorites/mine
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	tips, err := s.favoriteRepo.ListTipsByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.decorateTipMedia(tips...)
	return c.JSON(tips)
}

// GetTipRatings handles GET /api/tips/:id/ratings
func (s *Server) GetTipRatings(c *fiber.Ctx) error {
	ctx := c.Context()
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	ratings, err := s.ratingRepo.ListByTip(ctx, tipID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(ratings)
}

// GetTipValidations handles GET /api/tips/:id/validations (moderators only).
func (s *Server) GetTipValidations(c *fiber.Ctx) error {
	ctx := c.Context()
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	validations, err := s.validationRepo.ListByTip(ctx, tipID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(validations)
}

// callerMayViewDraft reports whether the caller may see an unvalidated tip.
// Only moderators and staff see drafts; everyone else, the creator included,
// gets a 404 until the tip passes validation.
func (s *Server) callerMayViewDraft(c *fiber.Ctx, userID uint) bool {
	if userID == 0 {
		return false
	}
	moderator, err := s.canModerate(c, userID)
	return err == nil && moderator
}
