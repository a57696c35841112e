package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries a profile snapshot alongside the registered claims
type SessionClaims[P any] struct {
	Profile  P    `json:"profile"`
	Remember bool `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates session tokens embedding a profile of type P
type JWTManager[P any] struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager. now is the clock used for issue
// times and expiry checks.
func NewJWTManager[P any](secret, issuer string, now func() time.Time) *JWTManager[P] {
	if now == nil {
		now = time.Now
	}
	return &JWTManager[P]{
		secretKey: []byte(secret),
		issuer:    issuer,
		now:       now,
	}
}

// GenerateToken signs a token for subject that expires at expiresAt
func (m *JWTManager[P]) GenerateToken(subject string, profile P, remember bool, expiresAt time.Time) (string, error) {
	now := m.now()
	claims := &SessionClaims[P]{
		Profile:  profile,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken validates a token and returns the claims.
// An expired token fails with an error matching jwt.ErrTokenExpired.
func (m *JWTManager[P]) ValidateToken(tokenString string) (*SessionClaims[P], error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims[P]{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims[P])
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// IsExpired reports whether err came from an expired token
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
