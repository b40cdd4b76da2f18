package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sdk-loader/core"
	"github.com/goliatone/go-sdk-loader/loader"
)

type Config struct {
	ID                 string
	ScriptURL          string
	ScriptID           string
	ReadyHook          string
	InitDefaults       map[string]any
	PermissionScopes   map[string]string
	UnknownPermissions core.UnknownPermissionMode
	Injector           core.ScriptInjector
	Hooks              *loader.ReadyHooks
	Now                func() time.Time
}

// SDKAdapter drives one vendor SDK through its load lifecycle: script
// injection behind the base loader's once-guard, ready-hook registration,
// vendor init, and login normalization. Vendor packages embed it the way
// providers embed a shared OAuth core.
type SDKAdapter struct {
	cfg   Config
	base  *loader.Loader
	hooks *loader.ReadyHooks

	mu        sync.Mutex
	cycle     *core.LoadCycle
	readiness *loader.Readiness

	// serializes vendor login calls so they reach the single vendor object
	// in submission order
	loginMu sync.Mutex
}

func New(cfg Config) (*SDKAdapter, error) {
	cfg.ID = strings.TrimSpace(strings.ToLower(cfg.ID))
	if cfg.ID == "" {
		return nil, fmt.Errorf("adapters: adapter id is required")
	}
	cfg.ScriptURL = strings.TrimSpace(cfg.ScriptURL)
	if cfg.ScriptURL == "" {
		return nil, fmt.Errorf("adapters: script url is required for adapter %q", cfg.ID)
	}
	cfg.ReadyHook = strings.TrimSpace(cfg.ReadyHook)
	if cfg.ReadyHook == "" {
		return nil, fmt.Errorf("adapters: ready hook is required for adapter %q", cfg.ID)
	}
	if cfg.Injector == nil {
		return nil, fmt.Errorf("adapters: script injector is required for adapter %q", cfg.ID)
	}
	cfg.ScriptID = strings.TrimSpace(cfg.ScriptID)
	if cfg.ScriptID == "" {
		cfg.ScriptID = cfg.ID + "-jssdk"
	}
	if !cfg.UnknownPermissions.Valid() {
		cfg.UnknownPermissions = core.UnknownPermissionPassthrough
	}
	cfg.InitDefaults = cloneOptions(cfg.InitDefaults)
	cfg.PermissionScopes = cloneScopeTable(cfg.PermissionScopes)
	if cfg.Now == nil {
		cfg.Now = func() time.Time {
			return time.Now().UTC()
		}
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = loader.DefaultHooks()
	}

	base, err := loader.New(cfg.Injector)
	if err != nil {
		return nil, err
	}

	return &SDKAdapter{
		cfg:   cfg,
		base:  base,
		hooks: hooks,
	}, nil
}

func (a *SDKAdapter) ID() string {
	if a == nil {
		return ""
	}
	return a.cfg.ID
}

func (a *SDKAdapter) ScriptURL() string {
	if a == nil {
		return ""
	}
	return a.cfg.ScriptURL
}

func (a *SDKAdapter) State() core.LoadState {
	if a == nil {
		return core.LoadStateUnloaded
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cycle == nil {
		return core.LoadStateUnloaded
	}
	return a.cycle.State
}

// Cycle returns a copy of the active load cycle, if any.
func (a *SDKAdapter) Cycle() (core.LoadCycle, bool) {
	if a == nil {
		return core.LoadCycle{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cycle == nil {
		return core.LoadCycle{}, false
	}
	return *a.cycle, true
}

// Load starts a load cycle, or joins the active one: calling Load while
// loading or ready returns the same readiness without re-injecting the
// script. Options merge shallowly over the adapter defaults, caller wins.
func (a *SDKAdapter) Load(ctx context.Context, opts core.LoadOptions) (core.Readiness, error) {
	if a == nil {
		return nil, fmt.Errorf("adapters: adapter is nil")
	}

	a.mu.Lock()
	if a.cycle != nil {
		readiness := a.readiness
		a.mu.Unlock()
		return readiness, nil
	}

	now := a.cfg.Now()
	cycle := &core.LoadCycle{
		ID:        uuid.NewString(),
		AdapterID: a.cfg.ID,
		State:     core.LoadStateUnloaded,
	}
	if err := cycle.TransitionTo(core.LoadStateLoading, "", now); err != nil {
		a.mu.Unlock()
		return nil, err
	}

	scriptURL := strings.TrimSpace(opts.ScriptURL)
	if scriptURL == "" {
		scriptURL = a.cfg.ScriptURL
	}
	merged := mergeInitOptions(a.cfg.InitDefaults, opts.APIConfig)
	readiness := loader.NewReadiness()

	if err := a.hooks.Bind(a.cfg.ReadyHook, func(api core.VendorAPI) {
		a.handleReady(cycle, readiness, merged, api)
	}); err != nil {
		a.mu.Unlock()
		return nil, err
	}

	a.cycle = cycle
	a.readiness = readiness
	a.mu.Unlock()

	// Injection runs detached from the caller: Load hands back the readiness
	// immediately and the script fetch settles it later.
	go func(ctx context.Context) {
		if err := a.base.LoadScript(ctx, scriptURL, a.cfg.ScriptID); err != nil {
			a.failCycle(cycle, readiness, err)
		}
	}(context.WithoutCancel(ctx))

	return readiness, nil
}

// handleReady is the vendor's global ready callback: init with the merged
// options, then settle the readiness with the vendor object.
func (a *SDKAdapter) handleReady(
	cycle *core.LoadCycle,
	readiness *loader.Readiness,
	initOptions map[string]any,
	api core.VendorAPI,
) {
	if api == nil {
		a.failCycle(cycle, readiness, fmt.Errorf("adapters: ready signal carried no vendor api for %q", a.cfg.ID))
		return
	}
	if err := api.Init(context.Background(), cloneOptions(initOptions)); err != nil {
		a.failCycle(cycle, readiness, err)
		return
	}

	a.mu.Lock()
	if a.cycle == cycle {
		_ = cycle.TransitionTo(core.LoadStateReady, "", a.cfg.Now())
	}
	a.mu.Unlock()

	readiness.Resolve(api)
}

// failCycle rejects the readiness and returns the adapter to unloaded so a
// later Load runs a fresh injection.
func (a *SDKAdapter) failCycle(cycle *core.LoadCycle, readiness *loader.Readiness, cause error) {
	a.mu.Lock()
	if a.cycle == cycle {
		_ = cycle.TransitionTo(core.LoadStateUnloaded, cause.Error(), a.cfg.Now())
		a.hooks.Clear(a.cfg.ReadyHook)
		a.base.Reset()
		a.cycle = nil
		a.readiness = nil
	}
	a.mu.Unlock()
	readiness.Reject(cause)
}

// Login awaits readiness, maps the requested permissions to the vendor scope
// string, and normalizes the vendor response. Logins issued while loading
// queue behind the readiness and reach the vendor object in submission order.
func (a *SDKAdapter) Login(ctx context.Context, opts core.LoginOptions) (core.AuthResult, error) {
	if a == nil {
		return core.AuthResult{}, fmt.Errorf("adapters: adapter is nil")
	}

	a.mu.Lock()
	readiness := a.readiness
	a.mu.Unlock()
	if readiness == nil {
		return core.AuthResult{}, goerrors.Wrap(
			core.ErrNoActiveLoadCycle,
			goerrors.CategoryConflict,
			"adapters: call Load before Login on "+a.cfg.ID,
		).
			WithCode(http.StatusConflict).
			WithTextCode(core.LoaderErrorNotReady)
	}

	api, err := readiness.Await(ctx)
	if err != nil {
		return core.AuthResult{}, err
	}

	scope, err := ComputeScope(opts.Permissions, a.cfg.PermissionScopes, a.cfg.UnknownPermissions)
	if err != nil {
		return core.AuthResult{}, err
	}

	a.loginMu.Lock()
	response, err := api.Login(ctx, scope)
	a.loginMu.Unlock()
	if err != nil {
		return core.AuthResult{}, err
	}
	if response.AuthResponse == nil {
		return core.AuthResult{}, core.NewAuthDeniedError(a.cfg.ID)
	}

	payload := response.AuthResponse
	now := a.cfg.Now()
	return core.AuthResult{
		AccessToken: payload.AccessToken,
		UserID:      payload.UserID,
		ExpiresIn:   payload.ExpiresIn,
		ExpiresAt:   now.Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}

// Unload resets the lifecycle bookkeeping: clears the ready hook, drops the
// readiness, and rewinds the injection guard so the next Load re-runs the
// full cycle. Nothing already injected is removed.
func (a *SDKAdapter) Unload() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.hooks.Clear(a.cfg.ReadyHook)
	a.base.Reset()
	if a.cycle != nil {
		_ = a.cycle.TransitionTo(core.LoadStateUnloaded, "", a.cfg.Now())
	}
	a.cycle = nil
	a.readiness = nil
	a.mu.Unlock()
}

func mergeInitOptions(defaults map[string]any, overrides map[string]any) map[string]any {
	merged := cloneOptions(defaults)
	for key, value := range overrides {
		merged[key] = value
	}
	return merged
}

func cloneOptions(options map[string]any) map[string]any {
	cloned := make(map[string]any, len(options))
	for key, value := range options {
		cloned[key] = value
	}
	return cloned
}

func cloneScopeTable(table map[string]string) map[string]string {
	cloned := make(map[string]string, len(table))
	for key, value := range table {
		cloned[key] = value
	}
	return cloned
}

var (
	_ core.Adapter       = (*SDKAdapter)(nil)
	_ core.CycleReporter = (*SDKAdapter)(nil)
)
