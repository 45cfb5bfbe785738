package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Group struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
}

// Member is a roster entry. The role carries no voting weight.
type Member struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	Role    Role
}
