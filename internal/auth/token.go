// Package auth issues and verifies the bearer tokens handed out by GET /auth.
package auth

import (
	"errors"
	"fmt"
	"time"

	"secondhand-market/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims binds a user identifier to the role set it held when the token was issued.
type Claims struct {
	UID   string   `json:"uid"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity is what a verified token resolves to.
type Identity struct {
	UID   string
	Roles model.Roles
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a signer/verifier for HS256 tokens. A zero ttl
// issues tokens that stay valid for as long as the signature does.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *TokenService) Issue(uid string, roles model.Roles) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Roles: roles.Normalize().Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uid,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UID == "" {
		return nil, ErrInvalidToken
	}

	roles := make(model.Roles, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = model.Role(r)
	}

	return &Identity{UID: claims.UID, Roles: roles.Normalize()}, nil
}
