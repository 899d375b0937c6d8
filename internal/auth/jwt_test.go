package auth_test

import (
	"testing"
	"time"

	"github.com/marketgrid/orders-api/internal/auth"
	"github.com/marketgrid/orders-api/internal/config"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(accessTTLMinutes int) *auth.TokenManager {
	return auth.NewTokenManager(&config.AuthConfig{
		Secret:     "test-secret",
		Issuer:     "orders-api-test",
		AccessTTL:  accessTTLMinutes,
		RefreshTTL: 60,
	})
}

func testUser() *domain.User {
	return &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username:  "alice",
		Email:     "alice@example.com",
		Type:      domain.UserTypeBuyer,
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := newTestTokenManager(30)
	user := testUser()

	access, refresh, err := tm.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	userCtx, err := tm.Verify(access, auth.TokenUseAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, "alice", userCtx.Username)
	assert.Equal(t, "alice@example.com", userCtx.Email)
	assert.Equal(t, domain.UserTypeBuyer, userCtx.UserType)

	_, err = tm.Verify(refresh, auth.TokenUseRefresh)
	require.NoError(t, err)
}

func TestTokenManager_WrongUse(t *testing.T) {
	tm := newTestTokenManager(30)
	user := testUser()

	access, refresh, err := tm.IssuePair(user)
	require.NoError(t, err)

	// Refresh token cannot authenticate a request
	_, err = tm.Verify(refresh, auth.TokenUseAccess)
	assert.ErrorIs(t, err, auth.ErrWrongUse)

	// Access token cannot drive the refresh flow
	_, err = tm.Verify(access, auth.TokenUseRefresh)
	assert.ErrorIs(t, err, auth.ErrWrongUse)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := newTestTokenManager(-1)
	user := testUser()

	access, err := tm.IssueAccess(user)
	require.NoError(t, err)

	_, err = tm.Verify(access, auth.TokenUseAccess)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_TamperedToken(t *testing.T) {
	tm := newTestTokenManager(30)
	user := testUser()

	access, err := tm.IssueAccess(user)
	require.NoError(t, err)

	_, err = tm.Verify(access+"x", auth.TokenUseAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(30)
	user := testUser()

	access, err := tm.IssueAccess(user)
	require.NoError(t, err)

	other := auth.NewTokenManager(&config.AuthConfig{
		Secret:     "different-secret",
		Issuer:     "orders-api-test",
		AccessTTL:  30,
		RefreshTTL: 60,
	})
	_, err = other.Verify(access, auth.TokenUseAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_ConfirmToken(t *testing.T) {
	tm := newTestTokenManager(30)
	user := testUser()

	confirm, err := tm.IssueConfirm(user)
	require.NoError(t, err)

	userCtx, err := tm.Verify(confirm, auth.TokenUseConfirm)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)

	// Confirmation links must not double as API credentials
	_, err = tm.Verify(confirm, auth.TokenUseAccess)
	assert.ErrorIs(t, err, auth.ErrWrongUse)
}
