package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sdk-loader/core"
	"github.com/goliatone/go-sdk-loader/loader"
)

var fixedNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

type fakeInjector struct {
	mu       sync.Mutex
	requests []core.ScriptRequest
	err      error
}

func (f *fakeInjector) Inject(_ context.Context, req core.ScriptRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.err
}

func (f *fakeInjector) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeInjector) lastURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1].URL
}

type fakeVendorAPI struct {
	mu          sync.Mutex
	initOptions map[string]any
	loginScopes []string
	response    core.LoginResponse
	loginErr    error
	initErr     error
}

func (f *fakeVendorAPI) Init(_ context.Context, options map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initOptions = options
	return f.initErr
}

func (f *fakeVendorAPI) Login(_ context.Context, scope string) (core.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginScopes = append(f.loginScopes, scope)
	return f.response, f.loginErr
}

func (f *fakeVendorAPI) lastScope() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.loginScopes) == 0 {
		return ""
	}
	return f.loginScopes[len(f.loginScopes)-1]
}

func newTestAdapter(t *testing.T, injector *fakeInjector) (*SDKAdapter, *loader.ReadyHooks) {
	t.Helper()
	hooks := loader.NewReadyHooks()
	adapter, err := New(Config{
		ID:        "vendor",
		ScriptURL: "https://cdn.example/sdk.js",
		ReadyHook: "vendorAsyncInit",
		InitDefaults: map[string]any{
			"version": "v1.0",
			"locale":  "en_US",
		},
		PermissionScopes: map[string]string{
			"createPosts": "publish_actions",
			"updatePosts": "publish_actions",
			"readPosts":   "user_posts",
		},
		Injector: injector,
		Hooks:    hooks,
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter, hooks
}

// loadAndSignal drives a full cycle: Load, wait for injection, then fire the
// vendor ready hook.
func loadAndSignal(
	t *testing.T,
	adapter *SDKAdapter,
	hooks *loader.ReadyHooks,
	injector *fakeInjector,
	api *fakeVendorAPI,
	opts core.LoadOptions,
) core.Readiness {
	t.Helper()
	readiness, err := adapter.Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	waitForInjection(t, injector, 1)
	hooks.Signal("vendorAsyncInit", api)
	if _, err := readiness.Await(context.Background()); err != nil {
		t.Fatalf("await readiness: %v", err)
	}
	return readiness
}

func waitForInjection(t *testing.T, injector *fakeInjector, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for injector.count() < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d injections, got %d", want, injector.count())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNew_ValidatesConfig(t *testing.T) {
	injector := &fakeInjector{}
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing id", Config{ScriptURL: "https://cdn.example/sdk.js", ReadyHook: "init", Injector: injector}},
		{"missing script url", Config{ID: "vendor", ReadyHook: "init", Injector: injector}},
		{"missing ready hook", Config{ID: "vendor", ScriptURL: "https://cdn.example/sdk.js", Injector: injector}},
		{"missing injector", Config{ID: "vendor", ScriptURL: "https://cdn.example/sdk.js", ReadyHook: "init"}},
	}
	for _, tc := range cases {
		if _, err := New(tc.cfg); err == nil {
			t.Fatalf("%s: expected constructor error", tc.name)
		}
	}
}

func TestLoad_InjectsDefaultURLOnce(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{})

	if adapter.State() != core.LoadStateReady {
		t.Fatalf("expected ready state, got %q", adapter.State())
	}
	if injector.lastURL() != "https://cdn.example/sdk.js" {
		t.Fatalf("expected default script url, got %q", injector.lastURL())
	}

	// second Load in the ready state joins the settled cycle
	again, err := adapter.Load(context.Background(), core.LoadOptions{})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !again.Settled() {
		t.Fatalf("expected second load to return the settled readiness")
	}
	if injector.count() != 1 {
		t.Fatalf("expected no re-injection, got %d calls", injector.count())
	}
}

func TestLoad_MergesAPIConfigOverDefaults(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{
		APIConfig: map[string]any{"appId": "X"},
	})

	if api.initOptions["appId"] != "X" {
		t.Fatalf("expected caller option merged, got %v", api.initOptions)
	}
	if api.initOptions["version"] != "v1.0" || api.initOptions["locale"] != "en_US" {
		t.Fatalf("expected defaults preserved under merge, got %v", api.initOptions)
	}
}

func TestLoad_ScriptURLOverride(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{
		ScriptURL: "https://cdn.example/next/sdk.js",
	})

	if injector.lastURL() != "https://cdn.example/next/sdk.js" {
		t.Fatalf("expected overridden script url, got %q", injector.lastURL())
	}
}

func TestLoad_InjectionFailureRejectsAndResets(t *testing.T) {
	cause := errors.New("network down")
	injector := &fakeInjector{err: cause}
	adapter, _ := newTestAdapter(t, injector)

	readiness, err := adapter.Load(context.Background(), core.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := readiness.Await(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected script load cause, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(readiness.Err(), &rich) {
		t.Fatalf("expected go-errors envelope, got %T", readiness.Err())
	}
	if rich.TextCode != core.LoaderErrorScriptLoadFailed {
		t.Fatalf("expected %q text code, got %q", core.LoaderErrorScriptLoadFailed, rich.TextCode)
	}
	if adapter.State() != core.LoadStateUnloaded {
		t.Fatalf("expected failed load to reset state, got %q", adapter.State())
	}

	// next Load starts a fresh cycle and re-injects
	injector.err = nil
	if _, err := adapter.Load(context.Background(), core.LoadOptions{}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	waitForInjection(t, injector, 2)
}

func TestLogin_WaitsForReadiness(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{
		response: core.LoginResponse{
			Status:       "connected",
			AuthResponse: &core.AuthPayload{AccessToken: "t", UserID: "u", ExpiresIn: 3600},
		},
	}

	if _, err := adapter.Load(context.Background(), core.LoadOptions{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	waitForInjection(t, injector, 1)

	type loginOutcome struct {
		result core.AuthResult
		err    error
	}
	outcome := make(chan loginOutcome, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		result, err := adapter.Login(context.Background(), core.LoginOptions{
			Permissions: []string{"createPosts", "readPosts"},
		})
		outcome <- loginOutcome{result: result, err: err}
	}()

	<-started
	select {
	case out := <-outcome:
		t.Fatalf("login settled before the vendor signaled ready: %+v", out)
	case <-time.After(50 * time.Millisecond):
	}

	hooks.Signal("vendorAsyncInit", api)
	out := <-outcome
	if out.err != nil {
		t.Fatalf("login: %v", out.err)
	}
	if api.lastScope() != "publish_actions,user_posts" {
		t.Fatalf("expected mapped scope string, got %q", api.lastScope())
	}
	if out.result.AccessToken != "t" || out.result.UserID != "u" {
		t.Fatalf("unexpected auth result: %+v", out.result)
	}
	if out.result.ExpiresIn != 3600 {
		t.Fatalf("expected verbatim expires_in, got %d", out.result.ExpiresIn)
	}
	if !out.result.ExpiresAt.Equal(fixedNow.Add(3600 * time.Second)) {
		t.Fatalf("expected expiry at clock+3600s, got %v", out.result.ExpiresAt)
	}
}

func TestLogin_DeniedWhenNoAuthPayload(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{response: core.LoginResponse{Status: "unknown"}}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{})

	_, err := adapter.Login(context.Background(), core.LoginOptions{
		Permissions: []string{"createPosts"},
	})
	if err == nil {
		t.Fatalf("expected auth denied error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.LoaderErrorAuthDenied {
		t.Fatalf("expected %q text code, got %q", core.LoaderErrorAuthDenied, rich.TextCode)
	}
}

func TestLogin_VendorErrorPassesThrough(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	cause := errors.New("popup blocked")
	api := &fakeVendorAPI{loginErr: cause}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{})

	if _, err := adapter.Login(context.Background(), core.LoginOptions{}); !errors.Is(err, cause) {
		t.Fatalf("expected vendor error passed through, got %v", err)
	}
}

func TestLogin_RequiresLoad(t *testing.T) {
	adapter, _ := newTestAdapter(t, &fakeInjector{})

	_, err := adapter.Login(context.Background(), core.LoginOptions{})
	if err == nil {
		t.Fatalf("expected login before load to fail")
	}
	if !errors.Is(err, core.ErrNoActiveLoadCycle) {
		t.Fatalf("expected no-active-cycle sentinel, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.LoaderErrorNotReady {
		t.Fatalf("expected %q text code, got %q", core.LoaderErrorNotReady, rich.TextCode)
	}
}

func TestUnload_RerunsFullCycle(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{}

	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{})
	adapter.Unload()

	if adapter.State() != core.LoadStateUnloaded {
		t.Fatalf("expected unloaded state, got %q", adapter.State())
	}
	if hooks.Bound("vendorAsyncInit") {
		t.Fatalf("expected unload to clear the ready hook")
	}

	readiness, err := adapter.Load(context.Background(), core.LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	waitForInjection(t, injector, 2)
	hooks.Signal("vendorAsyncInit", api)
	if _, err := readiness.Await(context.Background()); err != nil {
		t.Fatalf("await reloaded readiness: %v", err)
	}
	if adapter.State() != core.LoadStateReady {
		t.Fatalf("expected ready state after reload, got %q", adapter.State())
	}
}

func TestLoad_InitFailureRejects(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	cause := errors.New("bad app id")
	api := &fakeVendorAPI{initErr: cause}

	readiness, err := adapter.Load(context.Background(), core.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	waitForInjection(t, injector, 1)
	hooks.Signal("vendorAsyncInit", api)

	if _, err := readiness.Await(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected init failure, got %v", err)
	}
	if adapter.State() != core.LoadStateUnloaded {
		t.Fatalf("expected init failure to reset state, got %q", adapter.State())
	}
}

func TestCycle_TracksIdentifiers(t *testing.T) {
	injector := &fakeInjector{}
	adapter, hooks := newTestAdapter(t, injector)
	api := &fakeVendorAPI{}

	if _, ok := adapter.Cycle(); ok {
		t.Fatalf("expected no cycle before load")
	}
	loadAndSignal(t, adapter, hooks, injector, api, core.LoadOptions{})

	cycle, ok := adapter.Cycle()
	if !ok {
		t.Fatalf("expected an active cycle")
	}
	if cycle.ID == "" || cycle.AdapterID != "vendor" {
		t.Fatalf("unexpected cycle identifiers: %+v", cycle)
	}
	if cycle.State != core.LoadStateReady || cycle.ReadyAt == nil {
		t.Fatalf("expected ready cycle with timestamp, got %+v", cycle)
	}
}
