package models

import "time"

type User struct {
	Base
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Phone        string     `json:"phone,omitempty"`
	Role         UserRole   `json:"role"`
	GymName      string     `json:"gymName,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

type UserRole string

const (
	SuperAdmin UserRole = "super_admin"
	GymOwner   UserRole = "gym_owner"
)

// UserProfile is the client-facing view of a user, without credentials.
type UserProfile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      UserRole   `json:"role"`
	TenantID  string     `json:"tenantId,omitempty"`
	GymName   string     `json:"gymName,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		TenantID:  u.TenantID,
		GymName:   u.GymName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
