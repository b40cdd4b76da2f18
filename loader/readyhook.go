package loader

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-sdk-loader/core"
)

// The vendor convention is a single well-known global callback per SDK
// (fbAsyncInit and friends). ReadyHooks is the explicit port of that global:
// a process-wide table of single-slot hooks, bound on Load and cleared on
// Unload. Signal is what the vendor runtime calls once the SDK finished
// initializing.
type ReadyHooks struct {
	mu    sync.Mutex
	slots map[string]func(core.VendorAPI)
}

func NewReadyHooks() *ReadyHooks {
	return &ReadyHooks{slots: make(map[string]func(core.VendorAPI))}
}

var defaultHooks = NewReadyHooks()

// DefaultHooks is the process-wide table; vendor scripts only know one global
// namespace, so adapters share it unless a test supplies its own.
func DefaultHooks() *ReadyHooks {
	return defaultHooks
}

// Bind claims the slot for name. The slot is single-occupancy: binding a held
// slot is an error, surfacing double-load bugs instead of silently replacing
// the handler.
func (h *ReadyHooks) Bind(name string, fn func(core.VendorAPI)) error {
	if h == nil {
		return fmt.Errorf("loader: ready hooks table is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("loader: ready hook name is required")
	}
	if fn == nil {
		return fmt.Errorf("loader: ready hook handler is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, held := h.slots[name]; held {
		return fmt.Errorf("loader: ready hook already bound: %s", name)
	}
	h.slots[name] = fn
	return nil
}

func (h *ReadyHooks) Clear(name string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	delete(h.slots, strings.TrimSpace(name))
	h.mu.Unlock()
}

// Signal invokes the bound handler with the vendor object. Signals for
// unbound names are dropped, mirroring a vendor callback firing after
// teardown.
func (h *ReadyHooks) Signal(name string, api core.VendorAPI) {
	if h == nil {
		return
	}
	h.mu.Lock()
	fn := h.slots[strings.TrimSpace(name)]
	h.mu.Unlock()
	if fn == nil {
		return
	}
	fn(api)
}

func (h *ReadyHooks) Bound(name string) bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.slots[strings.TrimSpace(name)]
	return ok
}
