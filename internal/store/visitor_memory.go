package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gatepass/visitor-management/internal/model"
)

// MemoryVisitorStore holds visitor records in memory. It backs the handler
// tests and lets the server run without MySQL in dev mode.
type MemoryVisitorStore struct {
	mu      sync.RWMutex
	records map[uint64]*model.Visitor
	nextID  uint64
}

func NewMemoryVisitorStore() *MemoryVisitorStore {
	return &MemoryVisitorStore{records: make(map[uint64]*model.Visitor)}
}

func (m *MemoryVisitorStore) Create(_ context.Context, v *model.Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	v.ID = m.nextID
	v.CreatedAt = time.Now().UTC()
	cp := *v
	m.records[v.ID] = &cp
	return nil
}

func (m *MemoryVisitorStore) GetByID(_ context.Context, id uint64) (model.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.records[id]
	if !ok {
		return model.Visitor{}, ErrVisitorNotFound
	}
	return *v, nil
}

func (m *MemoryVisitorStore) ListAll(_ context.Context) ([]model.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Visitor, 0, len(m.records))
	for _, v := range m.records {
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DateOfVisit.Equal(out[j].DateOfVisit.Time) {
			return out[i].DateOfVisit.After(out[j].DateOfVisit.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryVisitorStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.records[id]; ok {
		v.Status = status
	}
	// absent id: zero-row no-op, still success
	return nil
}

func (m *MemoryVisitorStore) UpdateEmail(_ context.Context, id uint64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.records[id]; ok {
		v.Email = email
	}
	return nil
}

func (m *MemoryVisitorStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, id)
	return nil
}

func (m *MemoryVisitorStore) FindReturning(_ context.Context, username, idNumber, vehicleNumber string) (model.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Scan in id order so "first match" is stable.
	ids := make([]uint64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		v := m.records[id]
		if v.Username == username && v.IDType == model.IDTypeAadhar &&
			v.IDNumber == idNumber && v.VehicleNumber == vehicleNumber {
			return *v, nil
		}
	}
	return model.Visitor{}, ErrVisitorNotFound
}
