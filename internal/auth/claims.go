package auth

import (
	"bsg-portal/registry/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// Caller is the identity a service call runs on behalf of.
// It is resolved once per request and passed explicitly; the zero value is anonymous.
type Caller struct {
	UserID    string
	Roles     []constants.Role
	SessionID string
	Source    string
}

// SystemCaller is used by bootstrap tooling that runs outside an HTTP request.
func SystemCaller() Caller {
	return Caller{UserID: "system", Roles: []constants.Role{constants.RoleAdmin}, Source: "SYSTEM"}
}

func (c Caller) IsAuthenticated() bool { return c.UserID != "" }

func (c Caller) HasRole(role constants.Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool { return c.HasRole(constants.RoleAdmin) }

func (c Caller) IsAdminOrCoordinator() bool {
	return c.HasRole(constants.RoleAdmin) || c.HasRole(constants.RoleCoordinator)
}

// Owns reports whether the caller is the given user.
func (c Caller) Owns(userID string) bool {
	return c.IsAuthenticated() && c.UserID == userID
}

// AccessClaims are carried inside the bearer token issued at sign in.
type AccessClaims struct {
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
