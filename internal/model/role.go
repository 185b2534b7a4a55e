package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles.  Exactly one configured
// email registers as ADMIN; every other registration is USER.  The
// role is assigned once at registration and is immutable afterwards.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Authority returns the wire-level authority string for the role.
// Tokens and route predicates deal in plain role names; the prefixed
// form exists only for clients that expect the ROLE_ convention.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// ParseRole converts an arbitrary string into a Role.  It accepts
// both the plain name and the ROLE_-prefixed authority form.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "ROLE_")) {
	case "USER":
		return RoleUser, nil
	case "ADMIN":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RolesFor computes the role set for an email using the configured
// admin allowlist.  The comparison is case-insensitive on the email.
func RolesFor(email, adminEmail string) []Role {
	if adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(adminEmail)) {
		return []Role{RoleAdmin}
	}
	return []Role{RoleUser}
}

// RoleNames converts a role set to its string form for token claims.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return names
}

// HasRole reports whether the set contains the given role.
func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
