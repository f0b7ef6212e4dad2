package server

import (
	"astuceplus/internal/models"
	"astuceplus/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	user.AvatarURL = s.mediaURL(user.Avatar)
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username  string `json:"username"`
		FullName  string `json:"full_name"`
		Age       *int   `json:"age"`
		Interests string `json:"interests"`
		Bio       string `json:"bio"`
		Phone     string `json:"phone"`
		Avatar    string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	// Update fields if provided
	if req.Username != "" && req.Username != user.Username {
		if vErr := validation.ValidateUsername(req.Username); vErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(vErr.Error()))
		}
		user.Username = req.Username
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Interests != "" {
		user.Interests = req.Interests
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	user.AvatarURL = s.mediaURL(user.Avatar)
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users (moderators only)
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	users, err := s.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	for i := range users {
		users[i].AvatarURL = s.mediaURL(users[i].Avatar)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	// Public view hides contact details.
	return c.JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"full_name":  user.FullName,
		"bio":        user.Bio,
		"avatar_url": s.mediaURL(user.Avatar),
		"role":       user.Role,
		"created_at": user.CreatedAt,
	})
}
