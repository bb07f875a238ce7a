package types

import "fmt"

// Role represents the authorization tier of a user: admin manages playbook
// templates and the user directory, analyst runs investigations and may
// create cases, viewer is read-only. Everything finer-grained is governed
// per case by CaseGrants, not by the role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleAnalyst,
		RoleViewer,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin,
		RoleAnalyst,
		RoleViewer:
		return true
	default:
		return false
	}
}

// Normalize returns the role, treating empty as RoleViewer.
func (r Role) Normalize() Role {
	if r == "" {
		return RoleViewer
	}
	return r
}

// CanCreateCase reports whether the role may open new cases.
func (r Role) CanCreateCase() bool {
	return r == RoleAdmin || r == RoleAnalyst
}

// CanManagePlaybookTemplates reports whether the role may create or edit
// playbook templates. Template administration is a deliberate admin-only
// policy; executing an attached playbook is governed per case instead.
func (r Role) CanManagePlaybookTemplates() bool {
	return r == RoleAdmin
}

// CanManageUsers reports whether the role may write the user directory.
// Directory administration is admin-only, same tier as template
// administration but a separate policy.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
