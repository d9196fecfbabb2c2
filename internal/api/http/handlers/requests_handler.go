package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/api/dto"
	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/projection"
	"github.com/hotelops/housekeeping/internal/service"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// RequestsHandler manages request endpoints.
type RequestsHandler struct {
	service *service.RequestService
	logger  *zap.Logger
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService, logger *zap.Logger) *RequestsHandler {
	return &RequestsHandler{service: requestService, logger: logger}
}

// List handles GET /api/requests. Store failures degrade to an empty list.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	filter := service.RequestListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !status.Valid() {
				return apperrors.NewValidationError("invalid status", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	requests, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		h.logger.Error("list requests failed", zap.Error(err))
		return c.JSON([]dto.RequestResponse{})
	}
	requests = projection.Search(requests, c.Query("search"))
	return h.respondList(c, requests)
}

// Get handles GET /api/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	request, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.respondOne(c, http.StatusOK, request)
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	request, err := h.service.Create(c.UserContext(), draft)
	if err != nil {
		return err
	}
	return h.respondOne(c, http.StatusCreated, request)
}

// Update handles PATCH /api/requests/:id.
func (h *RequestsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.service.Update(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), service.RequestPatch{
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
		Notes:        req.Notes,
		Priority:     req.Priority,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return h.respondOne(c, http.StatusOK, request)
}

// Delete handles DELETE /api/requests/:id.
func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "request deleted"})
}

func (h *RequestsHandler) respondOne(c *fiber.Ctx, status int, request *domain.Request) error {
	items, err := resolveRequests(c.UserContext(), h.service, []domain.Request{*request})
	if err != nil {
		return err
	}
	return c.Status(status).JSON(items[0])
}

func (h *RequestsHandler) respondList(c *fiber.Ctx, requests []domain.Request) error {
	items, err := resolveRequests(c.UserContext(), h.service, requests)
	if err != nil {
		h.logger.Error("resolve request users failed", zap.Error(err))
		return c.JSON([]dto.RequestResponse{})
	}
	return c.JSON(items)
}

// parseDraft reads a creation payload; createdById defaults to the caller.
func parseDraft(c *fiber.Ctx) (service.RequestDraft, error) {
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return service.RequestDraft{}, apperrors.NewValidationError("invalid payload", nil)
	}
	createdByID := strings.TrimSpace(req.CreatedByID)
	if createdByID == "" {
		if identity := auth.IdentityFromContext(c); identity != nil {
			createdByID = identity.ID
		}
	}
	return service.RequestDraft{
		RoomNumber:   req.RoomNumber,
		GuestName:    req.GuestName,
		Location:     req.Location,
		RequestType:  req.RequestType,
		Priority:     domain.RequestPriority(strings.ToUpper(string(req.Priority))),
		Description:  req.Description,
		Notes:        req.Notes,
		TaskCategory: req.TaskCategory,
		CreatedByID:  createdByID,
		AssignedToID: req.AssignedToID,
	}, nil
}

func resolveRequests(ctx context.Context, svc *service.RequestService, requests []domain.Request) ([]dto.RequestResponse, error) {
	resolved, err := svc.Resolve(ctx, requests)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequestResponse, 0, len(resolved))
	for i := range resolved {
		items = append(items, dto.NewRequestResponse(&resolved[i].Request, resolved[i].CreatedBy, resolved[i].AssignedTo))
	}
	return items, nil
}
