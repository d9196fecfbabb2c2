package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/api/dto"
	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/projection"
	"github.com/hotelops/housekeeping/internal/service"
)

// StriperHandler serves the stripping work queue.
type StriperHandler struct {
	service *service.RequestService
	logger  *zap.Logger
}

// NewStriperHandler constructs handler.
func NewStriperHandler(requestService *service.RequestService, logger *zap.Logger) *StriperHandler {
	return &StriperHandler{service: requestService, logger: logger}
}

// List handles GET /api/striper. Store failures degrade to an empty list.
func (h *StriperHandler) List(c *fiber.Ctx) error {
	requests, err := h.service.List(c.UserContext(), service.RequestListFilter{})
	if err != nil {
		h.logger.Error("list striping tasks failed", zap.Error(err))
		return c.JSON([]dto.RequestResponse{})
	}
	tasks := projection.FilterByCategory(requests, projection.StripingTasks())
	items, err := resolveRequests(c.UserContext(), h.service, tasks)
	if err != nil {
		h.logger.Error("resolve striping task users failed", zap.Error(err))
		return c.JSON([]dto.RequestResponse{})
	}
	return c.JSON(items)
}

// Create handles POST /api/striper.
func (h *StriperHandler) Create(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	request, err := h.service.CreateStripingTask(c.UserContext(), draft)
	if err != nil {
		return err
	}
	items, err := resolveRequests(c.UserContext(), h.service, []domain.Request{*request})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(items[0])
}
