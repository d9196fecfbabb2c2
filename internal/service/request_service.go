package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/events"
	"github.com/hotelops/housekeeping/internal/repository"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// RequestService owns the request lifecycle: creation, assignment, status changes and deletion.
// It keeps no state between calls; every mutation reads the request, then writes it back once.
type RequestService struct {
	requests   repository.RequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// RequestDraft describes request creation payload.
type RequestDraft struct {
	RoomNumber   *string
	GuestName    *string
	Location     *string
	RequestType  string
	Priority     domain.RequestPriority
	Description  string
	Notes        *string
	TaskCategory *domain.TaskCategory
	CreatedByID  string
	AssignedToID *string
}

// RequestPatch lists the fields Update may change. Nil fields are left alone;
// an empty AssignedToID clears the assignment.
type RequestPatch struct {
	Status       *domain.RequestStatus
	AssignedToID *string
	Notes        *string
	Priority     *domain.RequestPriority
	Description  *string
}

// RequestListFilter narrows List.
type RequestListFilter struct {
	AssigneeID *string
	Statuses   []domain.RequestStatus
}

// RequestWithUsers is a request with its creator and assignee resolved.
type RequestWithUsers struct {
	domain.Request
	CreatedBy  *domain.User
	AssignedTo *domain.User
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &RequestService{
		requests:   deps.RequestRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// Create validates a draft and stores it as a new PENDING request.
func (s *RequestService) Create(ctx context.Context, draft RequestDraft) (*domain.Request, error) {
	description := strings.TrimSpace(draft.Description)
	requestType := strings.TrimSpace(draft.RequestType)
	createdByID := strings.TrimSpace(draft.CreatedByID)

	missing := []string{}
	if description == "" {
		missing = append(missing, "description")
	}
	if requestType == "" {
		missing = append(missing, "requestType")
	}
	if draft.Priority == "" {
		missing = append(missing, "priority")
	}
	if createdByID == "" {
		missing = append(missing, "createdById")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if !draft.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": draft.Priority})
	}

	if err := s.requireUserReference(ctx, createdByID, "createdById"); err != nil {
		return nil, err
	}
	assignedToID := normalizeOptional(draft.AssignedToID)
	if assignedToID != nil {
		if err := s.requireUserReference(ctx, *assignedToID, "assignedToId"); err != nil {
			return nil, err
		}
	}

	var category *domain.TaskCategory
	if draft.TaskCategory != nil && strings.TrimSpace(string(*draft.TaskCategory)) != "" {
		c := domain.TaskCategory(strings.TrimSpace(string(*draft.TaskCategory)))
		category = &c
	}

	request := &domain.Request{
		RoomNumber:   normalizeOptional(draft.RoomNumber),
		GuestName:    normalizeOptional(draft.GuestName),
		Location:     normalizeOptional(draft.Location),
		RequestType:  requestType,
		Priority:     draft.Priority,
		Status:       domain.RequestStatusPending,
		Description:  description,
		Notes:        normalizeOptional(draft.Notes),
		TaskCategory: category,
		CreatedByID:  createdByID,
		AssignedToID: assignedToID,
	}
	now := s.now()
	request.CreatedAt = now
	request.UpdatedAt = now
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.NewCollaboratorError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		Actor:     events.Actor{UserID: &request.CreatedByID},
		Payload: events.RequestCreatedPayload{
			RoomNumber:   request.RoomNumber,
			RequestType:  request.RequestType,
			Priority:     request.Priority,
			TaskCategory: request.TaskCategory,
			AssignedToID: request.AssignedToID,
		},
	})
	return request, nil
}

// CreateStripingTask creates a request in the stripping work queue.
func (s *RequestService) CreateStripingTask(ctx context.Context, draft RequestDraft) (*domain.Request, error) {
	category := domain.TaskCategoryStriper
	draft.TaskCategory = &category
	return s.Create(ctx, draft)
}

// Get returns a request by id.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "request", map[string]any{"request_id": id})
	}
	return request, nil
}

// List returns requests newest first.
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) ([]domain.Request, error) {
	requests, err := s.requests.List(ctx, repository.RequestFilter{
		AssigneeID: filter.AssigneeID,
		Statuses:   filter.Statuses,
	})
	if err != nil {
		return nil, apperrors.NewCollaboratorError(err)
	}
	return requests, nil
}

// Resolve attaches creator and assignee records to each request.
// Requests referencing a user that no longer exists keep a nil pointer.
func (s *RequestService) Resolve(ctx context.Context, requests []domain.Request) ([]RequestWithUsers, error) {
	result := make([]RequestWithUsers, 0, len(requests))
	if len(requests) == 0 {
		return result, nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewCollaboratorError(err)
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, request := range requests {
		item := RequestWithUsers{Request: request, CreatedBy: byID[request.CreatedByID]}
		if request.AssignedToID != nil {
			item.AssignedTo = byID[*request.AssignedToID]
		}
		result = append(result, item)
	}
	return result, nil
}

// Assign sets the assignee and starts pending work, in one write.
func (s *RequestService) Assign(ctx context.Context, actor *domain.Identity, requestID, assigneeID string) (*domain.Request, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if strings.TrimSpace(requestID) == "" || assigneeID == "" {
		return nil, apperrors.NewValidationError("requestId and assignedToId required", nil)
	}

	request, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor != nil && !actor.IsSupervisor() {
		if assigneeID != actor.ID {
			return nil, apperrors.NewForbidden("only supervisors can assign work to others")
		}
		if request.AssignedToID != nil && !request.IsAssignedTo(actor.ID) {
			return nil, apperrors.NewForbidden("request already assigned")
		}
	}
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		return nil, storeError(err, "user", map[string]any{"user_id": assigneeID})
	}
	if request.Status.Terminal() {
		return nil, apperrors.NewInvalidTransition(string(request.Status), string(domain.RequestStatusInProgress))
	}

	oldAssignee := request.AssignedToID
	oldStatus := request.Status
	request.AssignedToID = &assigneeID
	if request.Status == domain.RequestStatusPending {
		if err := s.applyStatus(request, domain.RequestStatusInProgress); err != nil {
			return nil, err
		}
	}
	request.UpdatedAt = s.now()

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, storeError(err, "request", map[string]any{"request_id": requestID})
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: request.ID,
		Actor:     events.ActorFromIdentity(actor),
		Payload: events.RequestAssignedPayload{
			OldAssigneeID: oldAssignee,
			NewAssigneeID: request.AssignedToID,
			Status:        request.Status,
		},
	})
	s.publishStatusChange(ctx, actor, request, oldStatus)
	return request, nil
}

// UpdateStatus moves a request along the lifecycle.
func (s *RequestService) UpdateStatus(ctx context.Context, actor *domain.Identity, requestID string, next domain.RequestStatus) (*domain.Request, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": next})
	}
	request, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor != nil && !actor.IsSupervisor() && !request.IsAssignedTo(actor.ID) {
		return nil, apperrors.NewForbidden("request is not assigned to you")
	}

	oldStatus := request.Status
	if err := s.applyStatus(request, next); err != nil {
		return nil, err
	}
	request.UpdatedAt = s.now()

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, storeError(err, "request", map[string]any{"request_id": requestID})
	}
	s.publishStatusChange(ctx, actor, request, oldStatus)
	return request, nil
}

// Update applies a field patch in one write. A status in the patch goes through the lifecycle table.
func (s *RequestService) Update(ctx context.Context, actor *domain.Identity, requestID string, patch RequestPatch) (*domain.Request, error) {
	if patch.Status == nil && patch.AssignedToID == nil && patch.Notes == nil && patch.Priority == nil && patch.Description == nil {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	request, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizePatch(actor, request, patch); err != nil {
		return nil, err
	}

	fields := []string{}
	oldStatus := request.Status
	oldAssignee := request.AssignedToID

	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", nil)
		}
		request.Description = description
		fields = append(fields, "description")
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *patch.Priority})
		}
		request.Priority = *patch.Priority
		fields = append(fields, "priority")
	}
	if patch.Notes != nil {
		request.Notes = normalizeOptional(patch.Notes)
		fields = append(fields, "notes")
	}
	if patch.AssignedToID != nil {
		assignee := normalizeOptional(patch.AssignedToID)
		if assignee != nil {
			if err := s.requireUserReference(ctx, *assignee, "assignedToId"); err != nil {
				return nil, err
			}
		}
		if !sameID(oldAssignee, assignee) && oldStatus.Terminal() {
			return nil, apperrors.NewInvalidTransition(string(oldStatus), string(domain.RequestStatusInProgress))
		}
		request.AssignedToID = assignee
		fields = append(fields, "assignedToId")
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
		}
		if err := s.applyStatus(request, *patch.Status); err != nil {
			return nil, err
		}
		fields = append(fields, "status")
	}
	request.UpdatedAt = s.now()

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, storeError(err, "request", map[string]any{"request_id": requestID})
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestUpdated,
		RequestID: request.ID,
		Actor:     events.ActorFromIdentity(actor),
		Payload:   events.RequestUpdatedPayload{Fields: fields},
	})
	if !sameID(oldAssignee, request.AssignedToID) {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestAssigned,
			RequestID: request.ID,
			Actor:     events.ActorFromIdentity(actor),
			Payload: events.RequestAssignedPayload{
				OldAssigneeID: oldAssignee,
				NewAssigneeID: request.AssignedToID,
				Status:        request.Status,
			},
		})
	}
	s.publishStatusChange(ctx, actor, request, oldStatus)
	return request, nil
}

// Delete removes a request permanently.
func (s *RequestService) Delete(ctx context.Context, actor *domain.Identity, requestID string) error {
	if actor != nil && !actor.IsSupervisor() {
		return apperrors.NewForbidden("only supervisors can delete requests")
	}
	request, err := s.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return storeError(err, "request", map[string]any{"request_id": requestID})
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestDeleted,
		RequestID: requestID,
		Actor:     events.ActorFromIdentity(actor),
		Payload:   events.RequestDeletedPayload{Status: request.Status},
	})
	return nil
}

// applyStatus moves request to next and keeps completedAt in step with COMPLETED.
func (s *RequestService) applyStatus(request *domain.Request, next domain.RequestStatus) error {
	if !domain.CanTransition(request.Status, next) {
		return apperrors.NewInvalidTransition(string(request.Status), string(next))
	}
	if next == domain.RequestStatusCompleted {
		if request.CompletedAt == nil {
			now := s.now()
			request.CompletedAt = &now
		}
	} else {
		request.CompletedAt = nil
	}
	request.Status = next
	return nil
}

func (s *RequestService) requireUserReference(ctx context.Context, userID, field string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewReferenceError("user", map[string]any{field: userID})
		}
		return apperrors.NewCollaboratorError(err)
	}
	return nil
}

func (s *RequestService) publishStatusChange(ctx context.Context, actor *domain.Identity, request *domain.Request, oldStatus domain.RequestStatus) {
	if oldStatus == request.Status {
		return
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: request.ID,
		Actor:     events.ActorFromIdentity(actor),
		Payload: events.RequestStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: request.Status,
		},
	})
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publication failed",
			zap.String("event_type", string(event.Type)),
			zap.String("request_id", event.RequestID),
			zap.Error(err))
	}
}

// authorizePatch lets supervisors change anything. Other staff may change requests
// assigned to them, and may claim an unassigned request for themselves only.
// Clearing an assignee is reserved to supervisors.
func authorizePatch(actor *domain.Identity, request *domain.Request, patch RequestPatch) error {
	if actor == nil || actor.IsSupervisor() {
		return nil
	}
	if patch.AssignedToID != nil {
		target := strings.TrimSpace(*patch.AssignedToID)
		if target == "" {
			return apperrors.NewForbidden("only supervisors can clear an assignment")
		}
		if target != actor.ID {
			return apperrors.NewForbidden("only supervisors can assign work to others")
		}
	}
	if request.IsAssignedTo(actor.ID) {
		return nil
	}
	if request.AssignedToID == nil && patch.AssignedToID != nil && strings.TrimSpace(*patch.AssignedToID) == actor.ID {
		return nil
	}
	return apperrors.NewForbidden("request is not assigned to you")
}

func storeError(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.NewCollaboratorError(err)
}

func normalizeOptional(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
