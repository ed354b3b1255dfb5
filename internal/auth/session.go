package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gymflow/internal/models"
)

const DefaultGymName = "Demo Gym"

type Session struct {
	SessionID    string          `json:"sessionId"`
	UserID       string          `json:"userId"`
	Email        string          `json:"email"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Role         models.UserRole `json:"role"`
	TenantID     string          `json:"tenantId,omitempty"`
	GymName      string          `json:"gymName"`
	RememberMe   bool            `json:"rememberMe"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	LastActivity time.Time       `json:"lastActivity"`
}

func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewSession builds the session handed to clients after login or signup.
// An empty tenantID falls back to the user's own tenant.
func NewSession(user *models.User, tenantID, gymName string, ttl time.Duration, rememberMe bool, now time.Time) (*Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return nil, err
	}
	if tenantID == "" {
		tenantID = user.TenantID
	}
	if gymName == "" {
		gymName = user.GymName
	}
	if gymName == "" {
		gymName = DefaultGymName
	}
	return &Session{
		SessionID:    id,
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		TenantID:     tenantID,
		GymName:      gymName,
		RememberMe:   rememberMe,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
	}, nil
}
