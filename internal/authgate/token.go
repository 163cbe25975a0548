package authgate

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidUnlockToken covers malformed, forged, and expired unlock tokens.
var ErrInvalidUnlockToken = errors.New("invalid unlock token")

type unlockClaims struct {
	jwt.RegisteredClaims
	OwnerID string
}

// TokenSource mints and validates the short-lived unlock tokens the gate
// hands out on a successful authentication. When a token expires the session
// re-locks and the owner has to authenticate again.
type TokenSource struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSource(secret []byte, ttl time.Duration) *TokenSource {
	return &TokenSource{secret: secret, ttl: ttl}
}

// Mint signs an HS256 token for ownerID valid for the configured TTL.
func (t *TokenSource) Mint(ownerID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, unlockClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
		},
		OwnerID: ownerID,
	})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks signature and expiry and returns the owner the token was
// minted for. Any parse or verification failure maps to ErrInvalidUnlockToken.
func (t *TokenSource) Validate(tokenString string) (string, error) {
	claims := &unlockClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return "", ErrInvalidUnlockToken
	}

	if !token.Valid {
		return "", ErrInvalidUnlockToken
	}

	return claims.OwnerID, nil
}
