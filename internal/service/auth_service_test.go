package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/model"
)

func TestAuthService_PasswordHashing(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})

	hash, err := f.auth.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, f.auth.CheckPassword(hash, "password123"))
	assert.ErrorIs(t, f.auth.CheckPassword(hash, "password124"), ErrInvalidCredentials)
}

func TestAuthService_EstablishAndRestore(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	user := &model.User{ID: "u-1", FullName: "Asha Rao", Email: "asha@example.com", Role: model.RoleStudent}

	token, err := f.auth.Establish(ctx, user)
	require.NoError(t, err)

	claims, restored, err := f.auth.Restore(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.ElementsMatch(t, []string{"requests:submit", "requests:read_own"}, claims.Permissions)
	assert.Equal(t, user.Email, restored.Email)
}

func TestAuthService_RestoreAfterTeardown(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	user := &model.User{ID: "u-1", Role: model.RoleAdmin}

	token, err := f.auth.Establish(ctx, user)
	require.NoError(t, err)
	require.NoError(t, f.auth.Teardown(ctx, user.ID))

	_, _, err = f.auth.Restore(ctx, token)
	assert.ErrorIs(t, err, ErrSessionInvalidated)
}

func TestAuthService_NewerSessionReplacesOlder(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	user := &model.User{ID: "u-1", Role: model.RoleAdmin}

	first, err := f.auth.Establish(ctx, user)
	require.NoError(t, err)
	second, err := f.auth.Establish(ctx, user)
	require.NoError(t, err)

	_, _, err = f.auth.Restore(ctx, first)
	assert.ErrorIs(t, err, ErrSessionInvalidated)
	_, _, err = f.auth.Restore(ctx, second)
	assert.NoError(t, err)
}

func TestAuthService_RejectsExpiredAndForeignTokens(t *testing.T) {
	f := newFixture(t, LedgerPolicy{})
	ctx := context.Background()
	user := &model.User{ID: "u-1", Role: model.RoleStudent}

	f.auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := f.auth.Establish(ctx, user)
	require.NoError(t, err)
	f.auth.now = time.Now

	_, err = f.auth.ValidateToken(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	other := *f.cfg
	other.JWTSecret = "another-secret"
	foreign, err := NewAuthService(&other, f.sessions).Establish(ctx, user)
	require.NoError(t, err)
	_, _, err = f.auth.Restore(ctx, foreign)
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}
