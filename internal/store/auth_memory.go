package store

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/gatepass/visitor-management/internal/model"
)

// MemoryAdminStore holds admin accounts in memory for tests and dev mode.
type MemoryAdminStore struct {
	mu     sync.RWMutex
	admins map[string]*model.Admin
	nextID uint64
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{admins: make(map[string]*model.Admin)}
}

func (m *MemoryAdminStore) GetByUsername(_ context.Context, username string) (model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.admins[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return model.Admin{}, ErrAdminNotFound
	}
	return *a, nil
}

func (m *MemoryAdminStore) GetByID(_ context.Context, id uint64) (model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.admins {
		if a.ID == id {
			return *a, nil
		}
	}
	return model.Admin{}, ErrAdminNotFound
}

func (m *MemoryAdminStore) Create(_ context.Context, username, passwordHash, role string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[strings.ToLower(strings.TrimSpace(username))]; ok {
		return 0, ErrAdminExists
	}
	m.nextID++
	now := time.Now().UTC()
	a := &model.Admin{
		ID:           m.nextID,
		Username:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.admins[a.Username] = a
	return a.ID, nil
}

// SetActive flips the is_active flag on an account.
func (m *MemoryAdminStore) SetActive(_ context.Context, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.admins {
		if a.ID == id {
			a.IsActive = active
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrAdminNotFound
}

type memoryToken struct {
	adminID   uint64
	expiresAt time.Time
	revoked   bool
}

// MemoryTokenStore keeps refresh token hashes in memory.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*memoryToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]*memoryToken)}
}

func (m *MemoryTokenStore) StoreRefresh(_ context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[tokenHash] = &memoryToken{adminID: adminID, expiresAt: exp}
	return nil
}

func (m *MemoryTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.expiresAt) {
		return 0, sql.ErrNoRows
	}
	return t.adminID, nil
}

func (m *MemoryTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tokens[tokenHash]; ok {
		t.revoked = true
	}
	return nil
}

func (m *MemoryTokenStore) RevokeAllForAdmin(_ context.Context, adminID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.adminID == adminID {
			t.revoked = true
		}
	}
	return nil
}
