package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

// Claims is the JWT payload. CustomerID is present only for customer
// role users linked to a customer record.
type Claims struct {
	Role       model.Role `json:"role"`
	CustomerID *int64     `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(user *model.User, customerID *int64) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:       user.Role,
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   jwtSubject(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses the token and maps its claims onto a policy actor.
func (m *TokenManager) Verify(tokenString string) (policy.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return policy.Actor{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return policy.Actor{}, ErrInvalidRole
	}
	userID, err := parseJWTSubject(claims.Subject)
	if err != nil {
		return policy.Actor{}, ErrInvalidToken
	}
	return policy.Actor{
		UserID:     userID,
		Role:       claims.Role,
		CustomerID: claims.CustomerID,
	}, nil
}
