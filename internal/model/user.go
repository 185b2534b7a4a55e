package model

import (
	"strings"
	"time"
)

// UserStatus tracks whether an account is usable.  QUIT is terminal:
// a quit account can never log in again and all of its questions are
// deactivated in the same unit of work.
type UserStatus string

const (
	UserActive UserStatus = "ACTIVE"
	UserQuit   UserStatus = "QUIT"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column.  The json tags
// are omitted because these structs are used by the repository layer;
// handlers define separate response types with appropriate tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lower-cased.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (USER or ADMIN), assigned at registration.
//  Status       – ACTIVE or QUIT.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	Name         string     // users.name
	PasswordHash string     // users.password_hash
	Role         Role       // users.role
	Status       UserStatus // users.status
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// Roles returns the user's role set.  The deterministic allowlist
// mapping yields a single role per account, so the set has one element.
func (u User) Roles() []Role {
	return []Role{u.Role}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
