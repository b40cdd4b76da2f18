package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidLoadStateTransition = errors.New("core: invalid load state transition")
	ErrNoActiveLoadCycle          = errors.New("core: no active load cycle")
)

type LoadState string

const (
	LoadStateUnloaded LoadState = "unloaded"
	LoadStateLoading  LoadState = "loading"
	LoadStateReady    LoadState = "ready"
)

// LoadCycle tracks one load attempt from first injection through teardown.
// A new cycle starts on the first Load after construction or Unload; repeat
// Load calls during the same cycle share it.
type LoadCycle struct {
	ID        string
	AdapterID string
	State     LoadState
	StartedAt time.Time
	ReadyAt   *time.Time
	LastError string
}

func (c *LoadCycle) TransitionTo(state LoadState, reason string, now time.Time) error {
	if c == nil {
		return nil
	}
	if c.State == state {
		if strings.TrimSpace(reason) != "" {
			c.LastError = strings.TrimSpace(reason)
		}
		return nil
	}
	if !loadTransitionAllowed(c.State, state) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidLoadStateTransition, c.State, state)
	}
	c.State = state
	if strings.TrimSpace(reason) != "" {
		c.LastError = strings.TrimSpace(reason)
	}
	switch state {
	case LoadStateReady:
		readyAt := now
		c.ReadyAt = &readyAt
		c.LastError = ""
	case LoadStateLoading:
		c.StartedAt = now
	}
	return nil
}

func loadTransitionAllowed(current, next LoadState) bool {
	allowed := map[LoadState]map[LoadState]struct{}{
		LoadStateUnloaded: {
			LoadStateLoading: {},
		},
		LoadStateLoading: {
			LoadStateReady:    {},
			LoadStateUnloaded: {},
		},
		LoadStateReady: {
			LoadStateUnloaded: {},
		},
	}
	_, ok := allowed[current][next]
	return ok
}

// LoadOptions are supplied per Load call and merged shallowly over adapter
// defaults; they are never retained past the cycle they start.
type LoadOptions struct {
	ScriptURL string
	APIConfig map[string]any
}

type LoginOptions struct {
	Permissions []string
}

// AuthResult is the normalized shape of a successful vendor login.
// ExpiresIn carries the vendor's relative lifetime verbatim; ExpiresAt is the
// absolute deadline computed against the adapter clock.
type AuthResult struct {
	AccessToken string
	UserID      string
	ExpiresIn   int64
	ExpiresAt   time.Time
}

// AuthPayload is the vendor's raw authentication response fragment. Its
// absence on a completed login signals denial.
type AuthPayload struct {
	AccessToken string
	UserID      string
	ExpiresIn   int64
}

type LoginResponse struct {
	Status       string
	AuthResponse *AuthPayload
}

type ScriptRequest struct {
	URL string
	ID  string
}

func (r ScriptRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("core: script url is required")
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("core: script id is required")
	}
	return nil
}

type UnknownPermissionMode string

const (
	UnknownPermissionPassthrough UnknownPermissionMode = "passthrough"
	UnknownPermissionDrop        UnknownPermissionMode = "drop"
	UnknownPermissionError       UnknownPermissionMode = "error"
)

func (m UnknownPermissionMode) Valid() bool {
	switch m {
	case UnknownPermissionPassthrough, UnknownPermissionDrop, UnknownPermissionError:
		return true
	default:
		return false
	}
}
