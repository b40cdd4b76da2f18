package loader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-sdk-loader/core"
)

// Loader guards script injection so a given script id is injected at most
// once per loader lifetime, with at most one injection in flight per id.
// Reset clears the guard; it does not ask the collaborator to remove anything
// already injected, matching the vendor SDK convention where the script tag
// outlives the shim's bookkeeping.
type Loader struct {
	mu       sync.Mutex
	injector core.ScriptInjector
	flights  map[string]*injection
}

type injection struct {
	done chan struct{}
	err  error
}

func New(injector core.ScriptInjector) (*Loader, error) {
	if injector == nil {
		return nil, fmt.Errorf("loader: script injector is required")
	}
	return &Loader{
		injector: injector,
		flights:  make(map[string]*injection),
	}, nil
}

// LoadScript injects the script identified by id. Concurrent and repeat calls
// for the same id share one injection; callers joining an in-flight injection
// block until it settles. A failed injection clears the guard so a later call
// retries.
func (l *Loader) LoadScript(ctx context.Context, url string, id string) error {
	if l == nil {
		return fmt.Errorf("loader: loader is nil")
	}
	req := core.ScriptRequest{URL: strings.TrimSpace(url), ID: strings.TrimSpace(id)}
	if err := req.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	if flight, ok := l.flights[req.ID]; ok {
		l.mu.Unlock()
		select {
		case <-flight.done:
			return flight.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	flight := &injection{done: make(chan struct{})}
	l.flights[req.ID] = flight
	l.mu.Unlock()

	if err := l.injector.Inject(ctx, req); err != nil {
		flight.err = core.NewScriptLoadError(err, req.URL)
		l.mu.Lock()
		delete(l.flights, req.ID)
		l.mu.Unlock()
		close(flight.done)
		return flight.err
	}

	close(flight.done)
	return nil
}

// Injected reports whether the id has a completed, successful injection.
func (l *Loader) Injected(id string) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	flight, ok := l.flights[strings.TrimSpace(id)]
	l.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-flight.done:
		return flight.err == nil
	default:
		return false
	}
}

// Reset clears the injection guard so a subsequent LoadScript re-injects.
func (l *Loader) Reset() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.flights = make(map[string]*injection)
	l.mu.Unlock()
}
