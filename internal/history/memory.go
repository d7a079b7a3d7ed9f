package history

import (
	"context"
	"sort"
	"sync"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// memoryStore keeps runs in process memory.
type memoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemory returns an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{runs: make(map[string]Run)}
}

func (m *memoryStore) Record(_ context.Context, run Run) error {
	if err := validate(run); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[run.ID]; exists {
		return errors.NewValidationError("id", run.ID, "run already recorded")
	}
	m.runs[run.ID] = run
	return nil
}

func (m *memoryStore) List(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }
