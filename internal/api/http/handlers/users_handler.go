package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/api/dto"
	"github.com/hotelops/housekeeping/internal/service"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// UsersHandler exposes the staff directory.
type UsersHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// List handles GET /api/users. Store failures degrade to an empty list.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		return c.JSON([]dto.UserResponse{})
	}
	return c.JSON(dto.NewUserList(users))
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), service.UserDraft{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Update handles PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UserPatch{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
