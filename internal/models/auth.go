package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username   string   `json:"username" validate:"required"`
	Password   string   `json:"password" validate:"required"`
	ActiveRole UserRole `json:"activeRole,omitempty" validate:"omitempty,oneof=admin teacher upper-management high-level-dashboard"`
	IP         string   `json:"-"`
	UserAgent  string   `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
	User      UserInfo `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Roles      RoleList `json:"roles"`
	ActiveRole UserRole `json:"activeRole"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Roles      RoleList `json:"roles"`
	ActiveRole UserRole `json:"active_role"`
	jwt.RegisteredClaims
}

// Info projects the claims into the response shape.
func (c *JWTClaims) Info() UserInfo {
	return UserInfo{ID: c.UserID, Username: c.Username, Name: c.Name, Roles: c.Roles, ActiveRole: c.ActiveRole}
}

// IsTeacher reports whether the active role restricts access to own sessions.
func (c *JWTClaims) IsTeacher() bool {
	return c != nil && c.ActiveRole == RoleTeacher
}
