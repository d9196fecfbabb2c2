package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/repository"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// UserService manages staff records.
type UserService struct {
	users repository.UserRepository
}

// UserDraft describes user creation payload.
type UserDraft struct {
	Name  string
	Role  domain.UserRole
	Email *string
	Phone *string
}

// UserPatch lists the fields Update may change.
type UserPatch struct {
	Name  *string
	Role  *domain.UserRole
	Email *string
	Phone *string
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create validates and stores a new user.
func (s *UserService) Create(ctx context.Context, draft UserDraft) (*domain.User, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{"fields": []string{"name"}})
	}
	if !draft.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": draft.Role})
	}
	email := normalizeOptional(draft.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:  name,
		Role:  draft.Role,
		Email: email,
		Phone: normalizeOptional(draft.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewCollaboratorError(err)
	}
	return user, nil
}

// Ensure returns the user registered under draft's email, creating it when absent.
func (s *UserService) Ensure(ctx context.Context, draft UserDraft) (*domain.User, bool, error) {
	email := normalizeOptional(draft.Email)
	if email != nil {
		existing, err := s.users.GetByEmail(ctx, *email)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, false, apperrors.NewCollaboratorError(err)
		}
	}
	user, err := s.Create(ctx, draft)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", map[string]any{"user_id": id})
	}
	return user, nil
}

// List returns users ordered by name.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewCollaboratorError(err)
	}
	return users, nil
}

// Update edits role or contact details.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *patch.Role})
		}
		user.Role = *patch.Role
	}
	if patch.Email != nil {
		email := normalizeOptional(patch.Email)
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if patch.Phone != nil {
		user.Phone = normalizeOptional(patch.Phone)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err, "user", map[string]any{"user_id": id})
	}
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email *string, ownerID string) error {
	if email == nil {
		return nil
	}
	existing, err := s.users.GetByEmail(ctx, *email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return apperrors.NewCollaboratorError(err)
	case existing.ID != ownerID:
		return apperrors.NewConflict("email already registered", map[string]any{"email": *email})
	}
	return nil
}
