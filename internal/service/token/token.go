// Package token issues and verifies the signed bearer tokens that
// represent a session. Tokens are stateless: the server stores nothing,
// the access guard re-checks the user record on every request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hoangminh-dev/streetstore/internal/models"
)

// TTL is the fixed lifetime of every issued token.
const TTL = 7 * 24 * time.Hour

var (
	// ErrNoSecret means the signing secret is not configured. Issuing
	// unsigned tokens is never an option, so this is fatal at startup.
	ErrNoSecret = errors.New("token: signing secret is not configured")

	// ErrInvalidToken covers malformed, tampered and expired tokens.
	ErrInvalidToken = errors.New("token: invalid or expired token")
)

// Claims is the payload carried by a session token. The role claim is a
// snapshot at issuance time and is never trusted for authorization, it
// only identifies which user to re-check.
type Claims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func New(secret []byte) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &Service{secret: secret}, nil
}

func (s *Service) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiration. It is the only path through
// which claims from client input are ever trusted.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
