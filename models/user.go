package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried by a profile
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleLeader    Role = "LEADER"
	RoleScheduler Role = "SCHEDULER"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeader, RoleScheduler:
		return true
	}
	return false
}

// User is an authenticatable principal. Its role comes from the linked profile.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ProfileID    uuid.UUID `json:"profile_id" db:"profile_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(name, email, passwordHash string, profileID uuid.UUID) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		ProfileID:    profileID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile groups users under a named role
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Role        Role      `json:"role" db:"role"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a new Profile instance
func NewProfile(name string, role Role, description string) *Profile {
	now := time.Now()
	return &Profile{
		ID:          uuid.New(),
		Name:        name,
		Role:        role,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAdmin returns true if the profile grants the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
