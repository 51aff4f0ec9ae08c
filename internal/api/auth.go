package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dchgoh/SWE30003-ART-System/internal/api/middleware"
	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
)

// TokenIssuer mints the HS256 session tokens validated by the auth
// middleware.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret []byte, ttl time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, clock: clk}
}

func (i *TokenIssuer) Issue(u user.User) (string, error) {
	now := i.clock.Now()
	claims := middleware.Claims{
		UserType: string(u.Type),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
