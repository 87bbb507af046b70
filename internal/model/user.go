package model

import (
	"time"
)

// UserRole represents a user's role within the workspace.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleAgent   UserRole = "agent"
)

// User represents a workspace member who can be assigned conversations.
type User struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        UserRole   `json:"role"`
	Active      bool       `json:"active"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EntityID returns the user id.
func (u *User) EntityID() int { return u.ID }

// SetEntityID sets the user id.
func (u *User) SetEntityID(id int) { u.ID = id }

// StampCreated records the creation time.
func (u *User) StampCreated(t time.Time) { u.CreatedAt = t }

// StampUpdated records the last modification time.
func (u *User) StampUpdated(t time.Time) { u.UpdatedAt = t }

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	cp := *u
	cp.LastLoginAt = cloneTime(u.LastLoginAt)
	return &cp
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// UpdateUserRequest is the request to update a user. Zero-valued fields
// are left untouched.
type UpdateUserRequest struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Role      UserRole `json:"role,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// ListUsersResponse is the response for listing users.
type ListUsersResponse struct {
	Users []*User `json:"users"`
	Total int     `json:"total"`
}
