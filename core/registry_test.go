package core

import (
	"context"
	"testing"
)

type stubAdapter struct {
	id    string
	state LoadState
}

func (a *stubAdapter) ID() string       { return a.id }
func (a *stubAdapter) State() LoadState { return a.state }

func (a *stubAdapter) Load(context.Context, LoadOptions) (Readiness, error) {
	return nil, nil
}

func (a *stubAdapter) Login(context.Context, LoginOptions) (AuthResult, error) {
	return AuthResult{}, nil
}

func (a *stubAdapter) Unload() {}

func TestAdapterRegistry_RegisterAndGet(t *testing.T) {
	registry := NewAdapterRegistry()
	adapter := &stubAdapter{id: "facebook"}
	if err := registry.Register(adapter); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, ok := registry.Get("facebook")
	if !ok {
		t.Fatalf("expected adapter lookup to succeed")
	}
	if got != adapter {
		t.Fatalf("expected registered adapter back")
	}
	if _, ok := registry.Get("missing"); ok {
		t.Fatalf("expected miss for unregistered id")
	}
}

func TestAdapterRegistry_RejectsDuplicatesAndInvalid(t *testing.T) {
	registry := NewAdapterRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil adapter")
	}
	if err := registry.Register(&stubAdapter{id: "  "}); err == nil {
		t.Fatalf("expected error for blank id")
	}
	if err := registry.Register(&stubAdapter{id: "facebook"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&stubAdapter{id: "facebook"}); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}

func TestAdapterRegistry_ListIsSorted(t *testing.T) {
	registry := NewAdapterRegistry()
	for _, id := range []string{"pinterest", "facebook", "instagram"} {
		if err := registry.Register(&stubAdapter{id: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	listed := registry.List()
	want := []string{"facebook", "instagram", "pinterest"}
	if len(listed) != len(want) {
		t.Fatalf("expected %d adapters, got %d", len(want), len(listed))
	}
	for i, adapter := range listed {
		if adapter.ID() != want[i] {
			t.Fatalf("expected %q at position %d, got %q", want[i], i, adapter.ID())
		}
	}
}
