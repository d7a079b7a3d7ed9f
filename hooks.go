package bulkedit

import (
	"sync"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
)

// Hook function types for entity events. Hooks fire after an applied
// (non dry-run) import has been written.
type (
	// EntityCreatedHook is called when a row created a Parameter or FormulaValue.
	EntityCreatedHook func(document string, change differ.EntityChange)

	// EntityUpdatedHook is called when a row changed an existing entity.
	EntityUpdatedHook func(document string, change differ.EntityChange)

	// EntityDeletedHook is called when an entity missing from its sheet was deleted.
	EntityDeletedHook func(document string, change differ.EntityChange)
)

// Hooks provides event callback registration.
type Hooks interface {
	OnEntityCreated(EntityCreatedHook)
	OnEntityUpdated(EntityUpdatedHook)
	OnEntityDeleted(EntityDeletedHook)
}

// hooks manages event callbacks for entity changes.
type hooks struct {
	mu        sync.RWMutex
	onCreated []EntityCreatedHook
	onUpdated []EntityUpdatedHook
	onDeleted []EntityDeletedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnEntityCreated registers a callback for created entities.
func (c *client) OnEntityCreated(fn EntityCreatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCreated = append(c.hooks.onCreated, fn)
}

// OnEntityUpdated registers a callback for updated entities.
func (c *client) OnEntityUpdated(fn EntityUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUpdated = append(c.hooks.onUpdated, fn)
}

// OnEntityDeleted registers a callback for deleted entities.
func (c *client) OnEntityDeleted(fn EntityDeletedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onDeleted = append(c.hooks.onDeleted, fn)
}

// trigger walks the changesets and calls the registered hooks, Parameters
// before FormulaValues within each document.
func (h *hooks) trigger(changesets []*differ.Changeset) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, cs := range changesets {
		for _, set := range []*differ.EntityChangeset{cs.Parameters, cs.FormulaValues} {
			for _, change := range set.Added {
				for _, hook := range h.onCreated {
					hook(cs.Document, change)
				}
			}
			for _, change := range set.Updated {
				for _, hook := range h.onUpdated {
					hook(cs.Document, change)
				}
			}
			for _, change := range set.Removed {
				for _, hook := range h.onDeleted {
					hook(cs.Document, change)
				}
			}
		}
	}
}
