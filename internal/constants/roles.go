package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role mirrors the 'user_role' enum stored in user_roles.role
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleExecutive   Role = "executive"
	RoleCore        Role = "core"
	RoleMember      Role = "member"
)

// AllRoles in default display precedence, most privileged first.
var AllRoles = []Role{RoleAdmin, RoleCoordinator, RoleExecutive, RoleCore, RoleMember}

// String is handy for fmt and logs
func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts any casing; empty input is not a role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// ParseRoleList parses a comma separated precedence list such as
// "admin,coordinator,executive,core,member".
func ParseRoleList(s string) ([]Role, error) {
	var roles []Role
	seen := make(map[Role]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		if seen[r] {
			return nil, fmt.Errorf("role %q listed twice", r)
		}
		seen[r] = true
		roles = append(roles, r)
	}
	return roles, nil
}

/* ---------- DB adapters so gorm / sqlx scan and write cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
