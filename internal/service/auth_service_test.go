package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/housekeeping/internal/config"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

func TestAuthServiceIssueToken(t *testing.T) {
	env := newTestEnv(t)
	authService := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}, env.userDB)

	user, token, exp, err := authService.IssueToken(context.Background(), env.runner.ID)
	require.NoError(t, err)
	assert.Equal(t, env.runner.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := authService.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, env.runner.ID, claims.Subject)
	assert.Equal(t, env.runner.Role, claims.Role)

	_, _, _, err = authService.IssueToken(context.Background(), "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
