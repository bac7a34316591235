package setting

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mineralhub/mineralhub/internal/db/models"
)

// MemoryRepository keeps settings in a map. It mirrors Repository semantics and is meant
// for tests and tooling that must not touch a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID uint64
	rows   map[string]models.Setting
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[string]models.Setting{}}
}

// Get retrieves a setting by key.
func (m *MemoryRepository) Get(_ context.Context, key string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.rows[key]
	if !ok {
		return nil, ErrSettingNotFound
	}

	return &s, nil
}

// All retrieves every setting.
func (m *MemoryRepository) All(_ context.Context) ([]models.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sorted(func(models.Setting) bool { return true }), nil
}

// ListByType retrieves the settings of one type.
func (m *MemoryRepository) ListByType(_ context.Context, t models.SettingType) ([]models.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sorted(func(s models.Setting) bool { return s.Type == t }), nil
}

// List retrieves one filtered page of settings.
func (m *MemoryRepository) List(_ context.Context, f Filter) ([]models.Setting, int64, error) {
	f = f.Normalize()
	search := strings.ToLower(f.Search)

	m.mu.RLock()
	matched := m.sorted(func(s models.Setting) bool {
		if f.Type != "" && s.Type != f.Type {
			return false
		}

		if f.IsSensitive != nil && s.IsSensitive != *f.IsSensitive {
			return false
		}

		if search == "" {
			return true
		}

		if strings.Contains(strings.ToLower(s.Key), search) {
			return true
		}

		return s.Description != nil && strings.Contains(strings.ToLower(*s.Description), search)
	})
	m.mu.RUnlock()

	total := int64(len(matched))
	start := (f.Page - 1) * f.PerPage

	if start >= len(matched) {
		return []models.Setting{}, total, nil
	}

	end := min(start+f.PerPage, len(matched))

	return matched[start:end], total, nil
}

// Create inserts a new setting, failing on a duplicate key.
func (m *MemoryRepository) Create(_ context.Context, s *models.Setting) (*models.Setting, error) {
	if s == nil || s.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[s.Key]; ok {
		return nil, ErrSettingAlreadyExists
	}

	m.nextID++
	now := time.Now()
	s.ID = m.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	m.rows[s.Key] = *s

	return s, nil
}

// Upsert creates or replaces a setting.
func (m *MemoryRepository) Upsert(ctx context.Context, s *models.Setting) (*models.Setting, error) {
	if s == nil || s.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	m.mu.Lock()

	existing, ok := m.rows[s.Key]
	if !ok {
		m.mu.Unlock()
		return m.Create(ctx, s)
	}

	existing.Value = s.Value
	existing.Type = s.Type
	existing.Description = s.Description
	existing.IsSensitive = s.IsSensitive
	existing.UpdatedAt = time.Now()
	m.rows[s.Key] = existing
	m.mu.Unlock()

	return &existing, nil
}

// Delete removes a setting by key.
func (m *MemoryRepository) Delete(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrSettingKeyEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[key]; !ok {
		return false, nil
	}

	delete(m.rows, key)

	return true, nil
}

// Put overwrites the raw row as given, bypassing any encoding. Used to simulate
// rows written by other processes or corrupted at rest.
func (m *MemoryRepository) Put(s models.Setting) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == 0 {
		m.nextID++
		s.ID = m.nextID
	}

	m.rows[s.Key] = s
}

// sorted must be called with the lock held.
func (m *MemoryRepository) sorted(keep func(models.Setting) bool) []models.Setting {
	out := []models.Setting{}

	for _, s := range m.rows {
		if keep(s) {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}

		return out[i].Key < out[j].Key
	})

	return out
}
