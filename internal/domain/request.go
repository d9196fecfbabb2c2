package domain

import "time"

// RequestStatus enumerates lifecycle states for requests.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// RequestPriority enumerates urgency levels.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "LOW"
	RequestPriorityMedium RequestPriority = "MEDIUM"
	RequestPriorityHigh   RequestPriority = "HIGH"
	RequestPriorityUrgent RequestPriority = "URGENT"
)

// UnknownPriorityRank sorts after every known priority.
const UnknownPriorityRank = 4

// Valid reports whether p is a known priority.
func (p RequestPriority) Valid() bool {
	return p.Rank() != UnknownPriorityRank
}

// Rank orders priorities for work queues, URGENT first.
func (p RequestPriority) Rank() int {
	switch p {
	case RequestPriorityUrgent:
		return 0
	case RequestPriorityHigh:
		return 1
	case RequestPriorityMedium:
		return 2
	case RequestPriorityLow:
		return 3
	default:
		return UnknownPriorityRank
	}
}

// TaskCategory tags a request as part of a dedicated work queue.
type TaskCategory string

const TaskCategoryStriper TaskCategory = "STRIPER"

// Request is the aggregate for a unit of housekeeping work.
type Request struct {
	ID           string
	RoomNumber   *string
	GuestName    *string
	Location     *string
	RequestType  string
	Priority     RequestPriority
	Status       RequestStatus
	Description  string
	Notes        *string
	TaskCategory *TaskCategory
	CreatedByID  string
	AssignedToID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// IsAssignedTo reports whether the request is assigned to userID.
func (r *Request) IsAssignedTo(userID string) bool {
	return r.AssignedToID != nil && *r.AssignedToID == userID
}

var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:    {RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusInProgress: {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:  {},
	RequestStatusCancelled:  {},
}

// CanTransition reports whether a request may move from current to next.
// Staying in the same state is always allowed.
func CanTransition(current, next RequestStatus) bool {
	if current == next {
		return current.Valid()
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
