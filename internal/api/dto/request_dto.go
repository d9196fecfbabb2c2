package dto

import (
	"time"

	"github.com/hotelops/housekeeping/internal/domain"
)

// CreateRequestRequest payload. CreatedByID defaults to the caller.
type CreateRequestRequest struct {
	RoomNumber   *string                `json:"roomNumber"`
	GuestName    *string                `json:"guestName"`
	Location     *string                `json:"location"`
	RequestType  string                 `json:"requestType"`
	Priority     domain.RequestPriority `json:"priority"`
	Description  string                 `json:"description"`
	Notes        *string                `json:"notes"`
	TaskCategory *domain.TaskCategory   `json:"taskCategory"`
	CreatedByID  string                 `json:"createdById"`
	AssignedToID *string                `json:"assignedToId"`
}

// UpdateRequestRequest is a partial patch. An empty assignedToId unassigns.
type UpdateRequestRequest struct {
	Status       *domain.RequestStatus   `json:"status"`
	AssignedToID *string                 `json:"assignedToId"`
	Notes        *string                 `json:"notes"`
	Priority     *domain.RequestPriority `json:"priority"`
	Description  *string                 `json:"description"`
}

// AssignRequest payload for POST /assignments.
type AssignRequest struct {
	RequestID    string `json:"requestId"`
	AssignedToID string `json:"assignedToId"`
}

// RequestResponse is a request with its creator and assignee embedded.
type RequestResponse struct {
	ID           string                 `json:"id"`
	RoomNumber   *string                `json:"roomNumber"`
	GuestName    *string                `json:"guestName"`
	Location     *string                `json:"location"`
	RequestType  string                 `json:"requestType"`
	Priority     domain.RequestPriority `json:"priority"`
	Status       domain.RequestStatus   `json:"status"`
	Description  string                 `json:"description"`
	Notes        *string                `json:"notes"`
	TaskCategory *domain.TaskCategory   `json:"taskCategory"`
	CreatedByID  string                 `json:"createdById"`
	AssignedToID *string                `json:"assignedToId"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	CompletedAt  *time.Time             `json:"completedAt"`
	CreatedBy    *UserResponse          `json:"createdBy"`
	AssignedTo   *UserResponse          `json:"assignedTo"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewRequestResponse maps a request and its resolved users.
func NewRequestResponse(request *domain.Request, createdBy, assignedTo *domain.User) RequestResponse {
	return RequestResponse{
		ID:           request.ID,
		RoomNumber:   request.RoomNumber,
		GuestName:    request.GuestName,
		Location:     request.Location,
		RequestType:  request.RequestType,
		Priority:     request.Priority,
		Status:       request.Status,
		Description:  request.Description,
		Notes:        request.Notes,
		TaskCategory: request.TaskCategory,
		CreatedByID:  request.CreatedByID,
		AssignedToID: request.AssignedToID,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
		CompletedAt:  request.CompletedAt,
		CreatedBy:    NewUserResponse(createdBy),
		AssignedTo:   NewUserResponse(assignedTo),
	}
}
