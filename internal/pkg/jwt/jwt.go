package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/config"
	"github.com/golang-jwt/jwt/v4"
)

// InvalidTokenError marks tokens that fail parsing, signature or expiry
// checks, so the API layer can answer 401 instead of 500.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

// Manager issues and verifies the short-lived parent session tokens used to
// guard parent-only operations.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager() *Manager {
	return &Manager{
		secret: []byte(config.Secret()),
		ttl:    config.ParentTokenTTL(),
	}
}

func (m *Manager) CreateToken(memberID int64) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(memberID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

func (m *Manager) GetIDFromToken(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, &InvalidTokenError{Reason: err.Error()}
	}
	if !parsed.Valid {
		return 0, &InvalidTokenError{Reason: "token is not valid"}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, &InvalidTokenError{Reason: "malformed subject"}
	}

	return id, nil
}
