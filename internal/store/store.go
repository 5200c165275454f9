// Package store holds the persistence layer: interfaces for the visitor,
// admin and refresh-token stores plus their MySQL and in-memory
// implementations. Handlers depend only on the interfaces so tests and dev
// mode can run against memory.
package store

import (
	"context"
	"time"

	"github.com/gatepass/visitor-management/internal/model"
)

// VisitorStore defines storage operations for visitor records.
type VisitorStore interface {
	// Create inserts the record and fills in its store-assigned fields
	// (ID, CreatedAt).
	Create(ctx context.Context, v *model.Visitor) error
	// GetByID returns one record or ErrVisitorNotFound.
	GetByID(ctx context.Context, id uint64) (model.Visitor, error)
	// ListAll returns every record ordered by dateOfVisit descending.
	ListAll(ctx context.Context) ([]model.Visitor, error)
	// UpdateStatus overwrites the status field. Updating an absent id is a
	// zero-row no-op, reported as success.
	UpdateStatus(ctx context.Context, id uint64, status string) error
	// UpdateEmail overwrites the email field unconditionally.
	UpdateEmail(ctx context.Context, id uint64, email string) error
	// Delete removes the record; deleting an absent id is a no-op.
	Delete(ctx context.Context, id uint64) error
	// FindReturning looks up the first record matching the returning-visitor
	// tuple (username, idType=aadhar, idNumber, vehicleNumber) exactly, or
	// ErrVisitorNotFound.
	FindReturning(ctx context.Context, username, idNumber, vehicleNumber string) (model.Visitor, error)
}

// AdminStore defines storage operations for admin accounts.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	// GetByID returns the account owning a refresh token, or ErrAdminNotFound.
	GetByID(ctx context.Context, id uint64) (model.Admin, error)
	// Create inserts a new account or returns ErrAdminExists on a duplicate
	// username.
	Create(ctx context.Context, username, passwordHash, role string) (uint64, error)
}

// TokenStore persists and validates hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	// RevokeAllForAdmin invalidates every session of one account at once.
	RevokeAllForAdmin(ctx context.Context, adminID uint64) error
}
