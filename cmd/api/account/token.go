package account

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Token struct {
	AccountID   uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
}

// TokenIssuer signs and verifies the access tokens handed to authenticated
// accounts. HS256 with a shared secret, the account ID travels as subject.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (ti *TokenIssuer) Issue(accountID uuid.UUID) (Token, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ti.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    "library-service",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}

	return Token{AccountID: accountID, AccessToken: signed, ExpiresAt: expiresAt}, nil
}

/* Verifies signature and expiry and returns the account the token belongs to. */
func (ti *TokenIssuer) Parse(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrResponseUnauthenticated
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrResponseUnauthenticated
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrResponseUnauthenticated
	}

	return accountID, nil
}
