// Package domain defines the caller identity model and the admin policy.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level stored alongside an identity record.
type Role string

const (
	// RoleMember is the default role for every authenticated identity.
	RoleMember Role = "member"
	// RoleAdmin may revoke any token and read audit logs.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Identity is the persisted role record for a user of the identity provider.
type Identity struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Claims holds the verified claims of a caller bearer JWT.
type Claims struct {
	Subject   uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// Caller is the authenticated principal attached to a request.
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// IsAdmin is the single authorization-policy check for privileged operations.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// CanManage reports whether the caller may act on a resource owned by ownerID.
func (c *Caller) CanManage(ownerID uuid.UUID) bool {
	if c == nil {
		return false
	}
	return c.ID == ownerID || c.IsAdmin()
}
