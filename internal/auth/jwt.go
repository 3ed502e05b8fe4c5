package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by an access token.
type Claims struct {
	UserID string
	Role   domain.UserRole
}

// Manager issues and verifies HMAC-signed access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

const defaultTokenTTL = 24 * time.Hour

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(userID string, role domain.UserRole, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: sub, Role: domain.UserRole(role)}, nil
}
