package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen UserRole = "citizen"
	UserRoleAdmin   UserRole = "admin"
)

// Principal is the authenticated caller attached to a request by the auth
// middleware.
type Principal struct {
	UserID   uuid.UUID
	Role     UserRole
	FullName string
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsCitizen() bool {
	return p.Role == UserRoleCitizen
}
