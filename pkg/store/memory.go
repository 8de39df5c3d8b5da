package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowmotion/flowmotion/pkg/cache"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// MemoryStore is an in-memory scene store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func hashScene(s scene.Scene) (string, error) {
	data, err := scene.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	return cache.Hash(data), nil
}

func (m *MemoryStore) Save(ctx context.Context, s scene.Scene) (*Record, error) {
	hash, err := hashScene(s)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		SceneHash: hash,
		Scene:     s,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()

	copy := *rec
	return &copy, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, s scene.Scene) (*Record, error) {
	hash, err := hashScene(s)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Scene = s
	rec.SceneHash = hash
	rec.UpdatedAt = time.Now().UTC()

	copy := *rec
	return &copy, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *rec
	return &copy, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]RecordInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]RecordInfo, 0, len(m.records))
	for _, rec := range m.records {
		infos = append(infos, rec.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }
