package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/api/dto"
	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/service"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// AssignmentsHandler exposes assignment endpoints.
type AssignmentsHandler struct {
	service *service.RequestService
	logger  *zap.Logger
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(requestService *service.RequestService, logger *zap.Logger) *AssignmentsHandler {
	return &AssignmentsHandler{service: requestService, logger: logger}
}

// List handles GET /api/assignments?userId=.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}
	requests, err := h.service.List(c.UserContext(), service.RequestListFilter{AssigneeID: &userID})
	if err != nil {
		return err
	}
	items, err := resolveRequests(c.UserContext(), h.service, requests)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Assign handles POST /api/assignments.
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.service.Assign(c.UserContext(), auth.IdentityFromContext(c), req.RequestID, req.AssignedToID)
	if err != nil {
		return err
	}
	h.logger.Debug("request assigned",
		zap.String("request_id", request.ID),
		zap.String("assigned_to_id", req.AssignedToID))
	items, err := resolveRequests(c.UserContext(), h.service, []domain.Request{*request})
	if err != nil {
		return err
	}
	return c.JSON(items[0])
}
