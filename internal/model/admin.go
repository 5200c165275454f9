package model

import "time"

// Admin mirrors the 'admins' table. Admins approve, reject and complete
// visits through the protected endpoints; credentials are checked server-side
// against the stored bcrypt hash.
type Admin struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAdmin is the only role the service currently issues.
const RoleAdmin = "ADMIN"
