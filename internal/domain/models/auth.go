package models

import (
	"slices"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Roles understood by the gallery authorizer
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// GalleryClaims represents the JWT claims issued to gallery members.
type GalleryClaims struct {
	jwt.RegisteredClaims          // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string   `json:"email"`
	Roles                []string `json:"roles"`
}

// GetMemberID returns the member ID carried in the subject claim.
func (c *GalleryClaims) GetMemberID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Caller is the authenticated principal on whose behalf a request runs.
type Caller struct {
	MemberID int64
	Email    string
	Roles    []string
}

// HasRole reports whether the caller carries the given role.
func (c *Caller) HasRole(role string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Roles, role)
}

// IsAdmin is shorthand for HasRole(RoleAdmin)
func (c *Caller) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}
