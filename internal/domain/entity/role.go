// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "slices"

// Role represents the type of role a user can have on the platform.
type Role string

const (
	// RoleWholesaler indicates a wholesaler selling products on the platform.
	RoleWholesaler Role = "wholesaler"
	// RoleRetailer indicates a retailer purchasing from wholesalers.
	RoleRetailer Role = "retailer"
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "admin"
	// RoleSupport indicates a support staff member.
	RoleSupport Role = "support"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleWholesaler, RoleRetailer, RoleAdmin, RoleSupport:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// UserStatus represents the lifecycle state of a user account.
type UserStatus string

const (
	// UserStatusActive indicates a fully usable account.
	UserStatusActive UserStatus = "active"
	// UserStatusPending indicates an account that has not completed onboarding.
	UserStatusPending UserStatus = "pending"
	// UserStatusSuspended indicates an account disabled by an admin.
	UserStatusSuspended UserStatus = "suspended"
)

// IsValid checks if the UserStatus is a valid value.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusSuspended:
		return true
	default:
		return false
	}
}
