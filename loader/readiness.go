package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-sdk-loader/core"
)

// Readiness is the settle-once latch behind a load cycle. It resolves with
// the vendor object once the script has executed and the vendor signaled
// ready, or rejects when injection or vendor init fails. First settle wins;
// later calls are no-ops.
type Readiness struct {
	mu        sync.Mutex
	done      chan struct{}
	api       core.VendorAPI
	err       error
	callbacks []func(core.VendorAPI)
}

func NewReadiness() *Readiness {
	return &Readiness{done: make(chan struct{})}
}

func (r *Readiness) Resolve(api core.VendorAPI) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.settledLocked() {
		r.mu.Unlock()
		return
	}
	r.api = api
	callbacks := r.callbacks
	r.callbacks = nil
	close(r.done)
	r.mu.Unlock()

	for _, fn := range callbacks {
		fn(api)
	}
}

func (r *Readiness) Reject(err error) {
	if r == nil {
		return
	}
	if err == nil {
		err = fmt.Errorf("loader: readiness rejected")
	}
	r.mu.Lock()
	if r.settledLocked() {
		r.mu.Unlock()
		return
	}
	r.err = err
	r.callbacks = nil
	close(r.done)
	r.mu.Unlock()
}

// Await blocks until the latch settles or ctx expires. A latch that never
// settles pends for as long as the caller lets it; the coordinator imposes no
// timeout of its own.
func (r *Readiness) Await(ctx context.Context) (core.VendorAPI, error) {
	if r == nil {
		return nil, fmt.Errorf("loader: readiness is nil")
	}
	select {
	case <-r.done:
		return r.api, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnReady runs fn with the vendor object after resolution, immediately when
// already resolved. Rejection discards pending callbacks.
func (r *Readiness) OnReady(fn func(core.VendorAPI)) {
	if r == nil || fn == nil {
		return
	}
	r.mu.Lock()
	if !r.settledLocked() {
		r.callbacks = append(r.callbacks, fn)
		r.mu.Unlock()
		return
	}
	api, err := r.api, r.err
	r.mu.Unlock()
	if err == nil {
		fn(api)
	}
}

func (r *Readiness) Settled() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settledLocked()
}

func (r *Readiness) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.settledLocked() {
		return nil
	}
	return r.err
}

func (r *Readiness) settledLocked() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

var _ core.Readiness = (*Readiness)(nil)
