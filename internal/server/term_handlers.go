package server

import (
	"astuceplus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTerms handles GET /api/terms
func (s *Server) GetTerms(c *fiber.Ctx) error {
	terms, err := s.termRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(terms)
}

// GetTerm handles GET /api/terms/:id
func (s *Server) GetTerm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	term, err := s.termRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(term)
}

// CreateTerm handles POST /api/terms (moderators only)
func (s *Server) CreateTerm(c *fiber.Ctx) error {
	var req struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Term == "" || req.Definition == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Term and definition are required"))
	}

	term := &models.Term{Term: req.Term, Definition: req.Definition}
	if err := s.termRepo.Create(c.Context(), term); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(term)
}

// UpdateTerm handles PUT /api/terms/:id (moderators only)
func (s *Server) UpdateTerm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	term, err := s.termRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	if req.Term != "" {
		term.Term = req.Term
	}
	if req.Definition != "" {
		term.Definition = req.Definition
	}

	if err := s.termRepo.Update(c.Context(), term); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(term)
}

// DeleteTerm handles DELETE /api/terms/:id (moderators only)
func (s *Server) DeleteTerm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.termRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
