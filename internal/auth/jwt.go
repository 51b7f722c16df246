// Package auth issues, verifies and revokes bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"skyhub/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	Issuer   = "skyhub-api"
	Audience = "skyhub-client"

	blacklistPrefix = "blacklist:"
)

var (
	ErrSecretMissing = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrTokenRevoked  = errors.New("token has been revoked")
)

// Claims is the decoded identity carried by a token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenManager signs HS256 tokens and checks them against the Redis blacklist.
// A nil Redis client disables revocation.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewTokenManager builds a manager. ttl <= 0 falls back to 7 days.
func NewTokenManager(secret string, ttl time.Duration, rdb *redis.Client) *TokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, rdb: rdb, now: time.Now}
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}

// Issue signs a token for the user.
func (m *TokenManager) Issue(userID uint, username string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrSecretMissing
	}
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
		Username: username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token: HMAC signature, expiry, issuer, audience,
// a numeric subject and the revocation list.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrSecretMissing
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	if claims.ID != "" && m.rdb != nil {
		n, err := m.rdb.Exists(ctx, blacklistPrefix+claims.ID).Result()
		switch {
		case err != nil:
			middleware.Logger.WarnContext(ctx, "token revocation check failed", "error", err)
		case n > 0:
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke blacklists the token's jti until it would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(m.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return m.rdb.Set(ctx, blacklistPrefix+claims.ID, "1", ttl).Err()
}
