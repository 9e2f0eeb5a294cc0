package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"mygamelist/config"
	"mygamelist/internal/constants"
	"mygamelist/internal/database"
	"mygamelist/internal/models"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens. Revoked token ids live in
// the session cache, or in process memory when no cache is configured.
type TokenService struct {
	secret []byte
	expiry time.Duration
	cache  valkey.Client
	log    logger.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenService(config config.Config, cache valkey.Client) *TokenService {
	return &TokenService{
		secret:  []byte(config.JWTSecret),
		expiry:  config.JWTExpiry(),
		cache:   cache,
		log:     logger.New("TokenService"),
		revoked: make(map[string]time.Time),
	}
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

func (s *TokenService) Issue(user *models.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID.String(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, s.log.Function("Issue").Err("failed to sign token", err, "userID", user.ID)
	}

	return token, claims, nil
}

// Parse verifies signature, algorithm and expiry. Any failure is reported as
// ErrUnauthorized.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, types.Wrap(types.ErrUnauthorized, "invalid token")
	}

	if _, err := uuid.Parse(claims.UserID); err != nil || claims.ID == "" {
		return nil, types.Wrap(types.ErrUnauthorized, "invalid token")
	}

	return claims, nil
}

// Revoke blocks the token until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	err := database.NewCacheBuilder(s.cache, claims.ID).
		WithHash(constants.RevokedTokenPrefix).
		WithValue("1").
		WithTTL(ttl).
		WithContext(ctx).
		Set()
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrCacheUnavailable) {
		return s.log.Function("Revoke").Err("failed to revoke token", err, "jti", claims.ID)
	}

	now := time.Now()
	s.mu.Lock()
	s.sweepRevoked(now)
	s.revoked[claims.ID] = now.Add(ttl)
	s.mu.Unlock()

	return nil
}

// sweepRevoked drops entries whose tokens have expired. Callers hold mu.
func (s *TokenService) sweepRevoked(now time.Time) {
	for jti, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, jti)
		}
	}
}

func (s *TokenService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	found, err := database.NewCacheBuilder(s.cache, jti).
		WithHash(constants.RevokedTokenPrefix).
		WithContext(ctx).
		Exists()
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, database.ErrCacheUnavailable) {
		return false, types.StorageError("check revoked token", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
