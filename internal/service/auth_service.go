package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role        model.Role `json:"role"`
	UserID      string     `json:"user_id"`
	Permissions []string   `json:"permissions,omitempty"`
}

// AuthService issues tokens and keeps one session slot per identity.
type AuthService struct {
	cfg   *config.Config
	store session.Store
	now   func() time.Time

	decoyOnce sync.Once
	decoyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, store session.Store) *AuthService {
	return &AuthService{cfg: cfg, store: store, now: time.Now}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// RejectPassword spends the same bcrypt work as CheckPassword against a
// decoy hash and always fails. Logins for unknown emails call it so they take
// as long as a wrong password for a real account.
func (s *AuthService) RejectPassword(password string) error {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.New().String()), s.cfg.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.decoyHash, []byte(password))
	return ErrInvalidCredentials
}

// Establish signs a token for user and stores it as the user's only session.
// A previous session of the same user stops validating.
func (s *AuthService) Establish(ctx context.Context, user *model.User) (string, error) {
	jti := uuid.New().String()
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:        user.Role,
		UserID:      user.ID,
		Permissions: model.PermissionStrings(model.PermissionsFor(user.Role)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.store.Save(ctx, session.Slot{TokenID: jti, User: *user}, s.cfg.JWTExpiry); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Restore validates the token and returns the user stored in its session
// slot. It fails with ErrSessionInvalidated after Teardown or once a newer
// session has been established for the same user.
func (s *AuthService) Restore(ctx context.Context, tokenStr string) (*Claims, *model.User, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, nil, err
	}

	slot, err := s.store.Load(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil, ErrSessionInvalidated
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if slot.TokenID != claims.ID {
		return nil, nil, ErrSessionInvalidated
	}

	user := slot.User
	return claims, &user, nil
}

// Teardown removes the user's session slot.
func (s *AuthService) Teardown(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}
