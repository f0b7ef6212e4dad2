package server

import (
	"astuceplus/internal/models"
	"astuceplus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ValidateTip handles POST /api/moderation/tips/:id/validate (moderators
// only). It records a decision and flips the tip's valid flag; the full
// decision history stays in the validations table.
func (s *Server) ValidateTip(c *fiber.Ctx) error {
	ctx := c.Context()
	moderatorID := c.Locals("userID").(uint)
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	status := models.ValidationStatus(req.Status)
	if !status.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be acceptee or rejetee"))
	}

	decision, err := s.moderationService.ValidateTip(ctx, service.ValidateTipInput{
		ModeratorID: moderatorID,
		TipID:       tipID,
		Status:      status,
		Comment:     req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(decision)
}

// GetValidations handles GET /api/moderation/validations (moderators only).
func (s *Server) GetValidations(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	validations, err := s.validationRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(validations)
}
