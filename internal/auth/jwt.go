package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/config"
	"github.com/marketgrid/orders-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongUse     = errors.New("token used for wrong purpose")
)

// TokenUse distinguishes access tokens from refresh tokens
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
	// TokenUseConfirm is the single-purpose email confirmation token
	TokenUseConfirm TokenUse = "confirm"
)

// confirmTTL bounds how long an email confirmation link stays valid
const confirmTTL = 48 * time.Hour

// Claims is the JWT payload issued on login
type Claims struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	UserType domain.UserType `json:"user_type"`
	Use      TokenUse        `json:"use"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the HS256 token pair
type TokenManager struct {
	cfg *config.AuthConfig
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

// IssuePair issues an access and a refresh token for the user
func (m *TokenManager) IssuePair(user *domain.User) (access string, refresh string, err error) {
	access, err = m.issue(user, TokenUseAccess, m.cfg.AccessTTLDuration())
	if err != nil {
		return "", "", err
	}
	refresh, err = m.issue(user, TokenUseRefresh, m.cfg.RefreshTTLDuration())
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess issues a fresh access token (refresh flow)
func (m *TokenManager) IssueAccess(user *domain.User) (string, error) {
	return m.issue(user, TokenUseAccess, m.cfg.AccessTTLDuration())
}

// IssueConfirm issues the email confirmation token mailed at registration
func (m *TokenManager) IssueConfirm(user *domain.User) (string, error) {
	return m.issue(user, TokenUseConfirm, confirmTTL)
}

func (m *TokenManager) issue(user *domain.User, use TokenUse, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		Email:    user.Email,
		UserType: user.Type,
		Use:      use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, checking signature, expiry,
// issuer and intended use.
func (m *TokenManager) Verify(tokenString string, use TokenUse) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Use != use {
		return nil, ErrWrongUse
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return &UserContext{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
		UserType: claims.UserType,
	}, nil
}
