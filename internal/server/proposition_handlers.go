package server

import (
	"astuceplus/internal/models"
	"astuceplus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProposition handles POST /api/propositions. Any registered member
// can submit; the proposition enters review in the en_attente state.
func (s *Server) CreateProposition(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      string `json:"source"`
		Difficulty  string `json:"difficulty"`
		Image       string `json:"image"`
		CategoryIDs []uint `json:"category_ids"`
		TermIDs     []uint `json:"term_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	proposition, err := s.moderationService.SubmitProposition(ctx, service.SubmitPropositionInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Difficulty:  models.Difficulty(req.Difficulty),
		Image:       req.Image,
		CategoryIDs: req.CategoryIDs,
		TermIDs:     req.TermIDs,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	proposition.ImageURL = s.mediaURL(proposition.Image)
	return c.Status(fiber.StatusCreated).JSON(proposition)
}

// GetPropositions handles GET /api/propositions (moderators only). An
// optional status query filters the review queue.
func (s *Server) GetPropositions(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	status := models.PropositionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown proposition status"))
	}

	propositions, err := s.propositionRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.decoratePropositionMedia(propositions...)
	return c.JSON(propositions)
}

// GetMyPropositions handles GET /api/propositions/mine
func (s *Server) GetMyPropositions(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	propositions, err := s.propositionRepo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.decoratePropositionMedia(propositions...)
	return c.JSON(propositions)
}

// GetProposition handles GET /api/propositions/:id. Visible only to the
// submitter and to moderators.
func (s *Server) GetProposition(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	proposition, err := s.propositionRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	if proposition.UserID != userID {
		moderator, modErr := s.canModerate(c, userID)
		if modErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, modErr)
		}
		if !moderator {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You can only view your own propositions"))
		}
	}

	s.decoratePropositionMedia(proposition)
	return c.JSON(proposition)
}

// TransitionProposition handles POST /api/propositions/:id/status (moderators
// only). Accepting a proposition publishes its tip in the same transaction.
func (s *Server) TransitionProposition(c *fiber.Ctx) error {
	ctx := c.Context()
	moderatorID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
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

	status := models.PropositionStatus(req.Status)
	if !status.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown proposition status"))
	}

	proposition, err := s.moderationService.Transition(ctx, service.TransitionInput{
		ModeratorID:   moderatorID,
		PropositionID: id,
		Status:        status,
		Comment:       req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.decoratePropositionMedia(proposition)
	return c.JSON(proposition)
}

// decoratePropositionMedia fills computed URL fields on propositions and any
// published tip attached to them.
func (s *Server) decoratePropositionMedia(propositions ...*models.Proposition) {
	for _, proposition := range propositions {
		if proposition == nil {
			continue
		}
		proposition.ImageURL = s.mediaURL(proposition.Image)
		if proposition.Tip != nil {
			s.decorateTipMedia(proposition.Tip)
		}
	}
}
