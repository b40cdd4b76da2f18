package instagram

import (
	"strings"
	"time"

	"github.com/goliatone/go-sdk-loader/adapters"
	"github.com/goliatone/go-sdk-loader/core"
	"github.com/goliatone/go-sdk-loader/loader"
)

const AdapterID = "instagram"

const (
	DefaultLocale   = "en_US"
	ScriptElementID = "instagram-jssdk"
	ReadyHookName   = "igAsyncInit"
)

const (
	PermissionReadProfile = "readProfile"
	PermissionReadMedia   = "readMedia"
)

const (
	ScopeUserProfile = "user_profile"
	ScopeUserMedia   = "user_media"
)

type Config struct {
	ScriptURL          string
	Locale             string
	InitOptions        map[string]any
	UnknownPermissions core.UnknownPermissionMode
	Injector           core.ScriptInjector
	Hooks              *loader.ReadyHooks
	Now                func() time.Time
}

type Adapter struct {
	*adapters.SDKAdapter
}

func DefaultConfig() Config {
	return Config{
		ScriptURL:   ScriptURLForLocale(DefaultLocale),
		Locale:      DefaultLocale,
		InitOptions: map[string]any{},
	}
}

func New(cfg Config) (*Adapter, error) {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = defaults.Locale
	}
	if strings.TrimSpace(cfg.ScriptURL) == "" {
		cfg.ScriptURL = ScriptURLForLocale(cfg.Locale)
	}
	if len(cfg.InitOptions) == 0 {
		cfg.InitOptions = defaults.InitOptions
	}

	inner, err := adapters.New(adapters.Config{
		ID:                 AdapterID,
		ScriptURL:          cfg.ScriptURL,
		ScriptID:           ScriptElementID,
		ReadyHook:          ReadyHookName,
		InitDefaults:       cfg.InitOptions,
		PermissionScopes:   PermissionScopes(),
		UnknownPermissions: cfg.UnknownPermissions,
		Injector:           cfg.Injector,
		Hooks:              cfg.Hooks,
		Now:                cfg.Now,
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{SDKAdapter: inner}, nil
}

func ScriptURLForLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return "https://platform.instagram.com/" + locale + "/embeds.js"
}

func PermissionScopes() map[string]string {
	return map[string]string{
		PermissionReadProfile: ScopeUserProfile,
		PermissionReadMedia:   ScopeUserMedia,
	}
}

var _ core.Adapter = (*Adapter)(nil)
