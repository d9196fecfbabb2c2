package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/projection"
	"github.com/hotelops/housekeeping/internal/service"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// ViewsHandler serves role queues and dashboard counts.
type ViewsHandler struct {
	service  *service.RequestService
	location *time.Location
}

// NewViewsHandler constructs handler. Dates are interpreted in loc.
func NewViewsHandler(requestService *service.RequestService, loc *time.Location) *ViewsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ViewsHandler{service: requestService, location: loc}
}

// Queue handles GET /api/queue?tab=&date=&status=&search=.
func (h *ViewsHandler) Queue(c *fiber.Ctx) error {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	tab, err := projection.ParseTab(c.Query("tab"))
	if err != nil {
		return apperrors.NewValidationError("invalid tab", map[string]any{"tab": c.Query("tab")})
	}
	opts := projection.QueueOptions{Tab: tab, Location: h.location, Term: c.Query("search")}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, h.location)
		if err != nil {
			return apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{"date": raw})
		}
		opts.Date = &date
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.RequestStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		opts.Status = &status
	}

	requests, err := h.service.List(c.UserContext(), service.RequestListFilter{})
	if err != nil {
		return err
	}
	queue := projection.Queue(requests, projection.Viewer{ID: identity.ID, Role: identity.Role}, opts)
	items, err := resolveRequests(c.UserContext(), h.service, queue)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Stats handles GET /api/stats.
func (h *ViewsHandler) Stats(c *fiber.Ctx) error {
	requests, err := h.service.List(c.UserContext(), service.RequestListFilter{})
	if err != nil {
		return err
	}
	return c.JSON(projection.Stats(requests))
}
