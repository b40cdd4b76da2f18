package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]Adapter)}
}

func (r *AdapterRegistry) Register(adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("core: adapter is nil")
	}
	id := strings.TrimSpace(adapter.ID())
	if id == "" {
		return fmt.Errorf("core: adapter id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("core: adapter already registered: %s", id)
	}
	r.adapters[id] = adapter
	return nil
}

func (r *AdapterRegistry) Get(adapterID string) (Adapter, bool) {
	id := strings.TrimSpace(adapterID)
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	adapter, ok := r.adapters[id]
	r.mu.RUnlock()
	return adapter, ok
}

func (r *AdapterRegistry) List() []Adapter {
	r.mu.RLock()
	keys := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		keys = append(keys, id)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	adapters := make([]Adapter, 0, len(keys))
	r.mu.RLock()
	for _, id := range keys {
		adapters = append(adapters, r.adapters[id])
	}
	r.mu.RUnlock()
	return adapters
}
