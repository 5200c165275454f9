package store

import (
	"context"
	"database/sql"
	"time"
)

// MySQLTokenStore persists/validates refresh tokens (single 'token_hash' column).
type MySQLTokenStore struct{ DB *sql.DB }

func NewMySQLTokenStore(db *sql.DB) *MySQLTokenStore { return &MySQLTokenStore{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (s *MySQLTokenStore) StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (admin_id, token_hash, expires_at) VALUES (?,?,?)",
		adminID, tokenHash, exp)
	return err
}

// ValidateRefresh returns adminID if a non-revoked, non-expired token exists.
func (s *MySQLTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		adminID   uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT admin_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&adminID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return adminID, nil
}

// RevokeByHash marks a token as revoked.
func (s *MySQLTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForAdmin revokes all of an admin's active tokens.
func (s *MySQLTokenStore) RevokeAllForAdmin(ctx context.Context, adminID uint64) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE admin_id=? AND revoked_at IS NULL",
		adminID)
	return err
}
