package dto

import (
	"time"

	"github.com/hotelops/housekeeping/internal/domain"
)

// CreateUserRequest payload for new staff.
type CreateUserRequest struct {
	Name  string          `json:"name"`
	Role  domain.UserRole `json:"role"`
	Email *string         `json:"email"`
	Phone *string         `json:"phone"`
}

// UpdateUserRequest payload for role or contact edits.
type UpdateUserRequest struct {
	Name  *string          `json:"name"`
	Role  *domain.UserRole `json:"role"`
	Email *string          `json:"email"`
	Phone *string          `json:"phone"`
}

// UserResponse represents a staff member.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AuthResponse describes an issued bearer token.
type AuthResponse struct {
	UserID    string          `json:"userId"`
	Role      domain.UserRole `json:"role"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserList maps users preserving order.
func NewUserList(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *NewUserResponse(&users[i]))
	}
	return items
}
