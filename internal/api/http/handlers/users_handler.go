package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xyzesther/CommunityAssist/internal/api/dto"
	"github.com/xyzesther/CommunityAssist/internal/auth"
	"github.com/xyzesther/CommunityAssist/internal/service"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// UsersHandler exposes identity endpoints for community members.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Verify handles POST /verify-user: ensures the caller is registered,
// creating the account from token claims on first login.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	user, err := h.users.VerifyUser(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Get handles GET /user.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetBySubject(c.Context(), caller.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /user.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateProfile(c.Context(), caller.Subject, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// callerFromContext adapts the verified identity into the service-layer
// caller. Shared by every authenticated handler.
func callerFromContext(c *fiber.Ctx) (service.Caller, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return service.Caller{}, util.NewUnauthorized("authentication required")
	}
	return service.Caller{
		Subject: identity.Subject,
		Name:    identity.Name,
		Email:   identity.Email,
	}, nil
}
