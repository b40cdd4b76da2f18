package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// ScriptInjector is the external script-loading collaborator. Inject fetches
// and executes the vendor script; it returns once the script has run or the
// request failed. Injection never removes previously injected scripts.
type ScriptInjector interface {
	Inject(ctx context.Context, req ScriptRequest) error
}

// VendorAPI is the vendor global object attached by the injected script.
type VendorAPI interface {
	Init(ctx context.Context, options map[string]any) error
	Login(ctx context.Context, scope string) (LoginResponse, error)
}

// Readiness settles exactly once per load cycle: resolved with the vendor
// object after the script has executed and the vendor signaled ready, or
// rejected when injection or init fails. An unsettled Readiness pends until
// the caller's context expires; the coordinator imposes no timeout of its own.
type Readiness interface {
	Await(ctx context.Context) (VendorAPI, error)
	OnReady(fn func(VendorAPI))
	Settled() bool
	Err() error
}

type Adapter interface {
	ID() string
	State() LoadState
	Load(ctx context.Context, opts LoadOptions) (Readiness, error)
	Login(ctx context.Context, opts LoginOptions) (AuthResult, error)
	Unload()
}

type Registry interface {
	Register(adapter Adapter) error
	Get(adapterID string) (Adapter, bool)
	List() []Adapter
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type LoadRequest struct {
	AdapterID string
	Options   LoadOptions
}

type LoginRequest struct {
	AdapterID   string
	Permissions []string
}
