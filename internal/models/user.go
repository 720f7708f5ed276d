package models

import "time"

// Role of a user
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is known
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Profile represents a user of the platform
type Profile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	Avatar            string    `json:"avatar"`
	EmailConfirmed    bool      `json:"emailConfirmed"`
	ConfirmationToken string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserToken represents a refresh token for a user
type UserToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignUpRequest represents a registration request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

// SignInRequest represents a login request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// EmailRequest carries an email address
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenPair is returned on successful sign in and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest represents a partial profile update by its owner
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateRoleRequest represents a role change by an admin
type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin student"`
}
