package domain

import (
	"time"
)

// Roles assignable to a user account.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User represents a domain user object. Password holds the stored
// digest, never the plain text.
type User struct {
	Username  string
	Password  string
	Name      string
	Role      string
	CreatedAt time.Time
	LastLogin *time.Time
}

// NewUser creates a new User instance
func NewUser(username, password, name, role string) *User {
	if role == "" {
		role = RoleOperator
	}
	return &User{
		Username:  username,
		Password:  password,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.Username == "" {
		return NewInvalidInputError("username is required")
	}
	if u.Password == "" {
		return NewInvalidInputError("password is required")
	}
	return nil
}
