package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by stores when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by stores when a write violates email uniqueness.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Role enumerates user roles.
type Role string

const (
	// RoleUser is the default role assigned on registration.
	RoleUser Role = "user"
	// RoleAdmin is an administrative account.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStore defines persistence operations for users.
//
// Create and Update must reject an email already held by another record
// with ErrDuplicateEmail at write time, regardless of the record's active
// state.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetActiveByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context, offset, limit int) ([]User, error)
	CountActive(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, name, email string) (User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Pinger reports whether a backing resource is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// User represents a stored user account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams contains the raw input for registration and direct creation.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserParams contains the mutable profile fields.
type UpdateUserParams struct {
	Name  string
	Email string
}

// Session is the result of a successful registration or login.
type Session struct {
	Token string
	User  User
}
