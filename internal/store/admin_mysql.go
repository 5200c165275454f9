package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gatepass/visitor-management/internal/model"
)

// MySQLAdminStore implements AdminStore over the 'admins' table.
type MySQLAdminStore struct{ DB *sql.DB }

func NewMySQLAdminStore(db *sql.DB) *MySQLAdminStore { return &MySQLAdminStore{DB: db} }

// GetByUsername fetches an admin by normalized username.
func (s *MySQLAdminStore) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var a model.Admin
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, is_active, created_at, updated_at FROM admins WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrAdminNotFound
	}
	return a, err
}

// GetByID fetches an admin by primary key.
func (s *MySQLAdminStore) GetByID(ctx context.Context, id uint64) (model.Admin, error) {
	var a model.Admin
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, is_active, created_at, updated_at FROM admins WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrAdminNotFound
	}
	return a, err
}

// Create inserts an admin account and returns its ID.
func (s *MySQLAdminStore) Create(ctx context.Context, username, passwordHash, role string) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, role) VALUES (?,?,?)",
		username, passwordHash, role)
	if err != nil {
		// 1062 is the MySQL duplicate-key error on the username index.
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrAdminExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
