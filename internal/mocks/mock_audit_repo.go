package mocks

import (
	"context"
	"sync"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

// MockAuditRepo records entries in memory. The zero value is usable.
type MockAuditRepo struct {
	domain.AuditLogRepository
	mu      sync.Mutex
	Entries []domain.AuditLog
	Err     error
}

func (m *MockAuditRepo) Insert(ctx context.Context, entry *domain.AuditLog) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Entries = append(m.Entries, *entry)

	return nil
}

func (m *MockAuditRepo) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.AuditLog, *domain.Metadata, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]domain.AuditLog, len(m.Entries))
	copy(entries, m.Entries)

	return entries, domain.NewMetadata(len(entries), pagination.Page, pagination.PageSize), nil
}

// Actions returns the recorded action strings in insertion order.
func (m *MockAuditRepo) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions := make([]string, 0, len(m.Entries))
	for _, entry := range m.Entries {
		actions = append(actions, entry.Action)
	}

	return actions
}
