package server

import (
	"astuceplus/internal/models"
	"astuceplus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchTips handles GET /api/tips/search?q=...
// Searches title and description case-insensitively. Authenticated searches
// are recorded in the search log before the query runs.
func (s *Server) SearchTips(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	includeDrafts := false
	if userID != 0 {
		moderator, err := s.canModerate(c, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		includeDrafts = moderator
	}

	tips, err := s.tipService.SearchTips(ctx, service.SearchTipsInput{
		Query:         q,
		CategoryID:    uint(c.QueryInt("category_id")),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
		IncludeDrafts: includeDrafts,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.decorateTipMedia(tips...)
	return c.JSON(tips)
}
