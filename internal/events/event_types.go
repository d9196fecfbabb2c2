package events

import (
	"time"

	"github.com/hotelops/housekeeping/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestUpdated       EventType = "request_updated"
	EventRequestDeleted       EventType = "request_deleted"
)

// Actor encapsulates actor metadata for an event. A nil actor means an internal caller.
type Actor struct {
	UserID *string          `json:"user_id,omitempty"`
	Role   *domain.UserRole `json:"role,omitempty"`
}

// Event represents a lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RoomNumber   *string                `json:"room_number,omitempty"`
	RequestType  string                 `json:"request_type"`
	Priority     domain.RequestPriority `json:"priority"`
	TaskCategory *domain.TaskCategory   `json:"task_category,omitempty"`
	AssignedToID *string                `json:"assigned_to_id,omitempty"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	OldAssigneeID *string              `json:"old_assignee_id,omitempty"`
	NewAssigneeID *string              `json:"new_assignee_id,omitempty"`
	Status        domain.RequestStatus `json:"status"`
}

// RequestUpdatedPayload lists the fields a patch touched.
type RequestUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// RequestDeletedPayload payload.
type RequestDeletedPayload struct {
	Status domain.RequestStatus `json:"status"`
}

// ActorFromIdentity converts an authenticated caller into event actor metadata.
func ActorFromIdentity(identity *domain.Identity) Actor {
	if identity == nil {
		return Actor{}
	}
	id := identity.ID
	role := identity.Role
	return Actor{UserID: &id, Role: &role}
}
