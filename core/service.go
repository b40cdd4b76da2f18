package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service orchestrates load/login/unload across registered vendor adapters
// and wraps every operation with structured logging and metrics.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	registry        Registry
	injector        ScriptInjector
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Registry        Registry
	ScriptInjector  ScriptInjector
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("sdk-loader", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("sdk-loader"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewAdapterRegistry()
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		registry:        builder.registry,
		injector:        builder.injector,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Registry() Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) ScriptInjector() ScriptInjector {
	if s == nil {
		return nil
	}
	return s.injector
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		Registry:        s.registry,
		ScriptInjector:  s.injector,
	}
}

func (s *Service) RegisterAdapter(adapter Adapter) error {
	if s == nil || s.registry == nil {
		return fmt.Errorf("core: service registry is not configured")
	}
	return s.registry.Register(adapter)
}

// Load starts (or joins) the adapter's load cycle and returns its readiness.
// The readiness resolves with the vendor object once the script has executed
// and the vendor signaled ready.
func (s *Service) Load(ctx context.Context, req LoadRequest) (readiness Readiness, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": req.AdapterID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "load", err, fields)
	}()

	adapter, err := s.resolveAdapter(req.AdapterID)
	if err != nil {
		return nil, err
	}
	readiness, err = adapter.Load(ctx, req.Options)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if id := cycleID(adapter); id != "" {
		fields["cycle_id"] = id
	}
	return readiness, nil
}

// AwaitReady blocks until the adapter's readiness settles or ctx expires.
func (s *Service) AwaitReady(ctx context.Context, adapterID string) (api VendorAPI, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": adapterID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "await_ready", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return nil, err
	}
	readiness, err := adapter.Load(ctx, LoadOptions{})
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if id := cycleID(adapter); id != "" {
		fields["cycle_id"] = id
	}
	api, err = readiness.Await(ctx)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	return api, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (result AuthResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id":  req.AdapterID,
		"permissions": strings.Join(req.Permissions, ","),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "login", err, fields)
	}()

	adapter, err := s.resolveAdapter(req.AdapterID)
	if err != nil {
		return AuthResult{}, err
	}
	if id := cycleID(adapter); id != "" {
		fields["cycle_id"] = id
	}
	result, err = adapter.Login(ctx, LoginOptions{Permissions: req.Permissions})
	if err != nil {
		err = s.mapError(err)
		return AuthResult{}, err
	}
	return result, nil
}

func (s *Service) Unload(ctx context.Context, adapterID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": adapterID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "unload", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return err
	}
	// capture before Unload drops the cycle
	if id := cycleID(adapter); id != "" {
		fields["cycle_id"] = id
	}
	adapter.Unload()
	return nil
}

// CycleReporter is implemented by adapters that track a load cycle; the
// service uses it to tag operation telemetry with the cycle id.
type CycleReporter interface {
	Cycle() (LoadCycle, bool)
}

func cycleID(adapter Adapter) string {
	reporter, ok := adapter.(CycleReporter)
	if !ok {
		return ""
	}
	cycle, ok := reporter.Cycle()
	if !ok {
		return ""
	}
	return cycle.ID
}

func (s *Service) resolveAdapter(adapterID string) (Adapter, error) {
	if s == nil || s.registry == nil {
		return nil, s.mapError(fmt.Errorf("core: service registry is not configured"))
	}
	id := strings.TrimSpace(adapterID)
	if id == "" {
		return nil, s.mapError(fmt.Errorf("core: adapter id is required"))
	}
	adapter, ok := s.registry.Get(id)
	if !ok {
		return nil, s.mapError(fmt.Errorf("core: adapter not registered: %s", id))
	}
	return adapter, nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
