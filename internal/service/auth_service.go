package service

import (
	"context"
	"time"

	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/config"
	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/repository"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

// AuthService issues bearer tokens for registered staff.
// Sign-in itself belongs to the external identity provider.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// IssueToken signs a token carrying the user's id, name and role.
func (s *AuthService) IssueToken(ctx context.Context, userID string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", time.Time{}, storeError(err, "user", map[string]any{"user_id": userID})
	}
	token, exp, err := s.tokenMgr.GenerateToken(domain.Identity{ID: user.ID, Name: user.Name, Role: user.Role})
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
