package facebook

import (
	"strings"
	"time"

	"github.com/goliatone/go-sdk-loader/adapters"
	"github.com/goliatone/go-sdk-loader/core"
	"github.com/goliatone/go-sdk-loader/loader"
)

const AdapterID = "facebook"

const (
	DefaultLocale       = "en_US"
	DefaultGraphVersion = "v23.0"
	ScriptElementID     = "facebook-jssdk"
	ReadyHookName       = "fbAsyncInit"
)

const (
	PermissionPublicProfile = "publicProfile"
	PermissionEmail         = "email"
	PermissionReadPosts     = "readPosts"
	PermissionCreatePosts   = "createPosts"
	PermissionUpdatePosts   = "updatePosts"
	PermissionDeletePosts   = "deletePosts"
	PermissionReadStream    = "readStream"
)

const (
	ScopePublicProfile  = "public_profile"
	ScopeEmail          = "email"
	ScopeUserPosts      = "user_posts"
	ScopePublishActions = "publish_actions"
	ScopeReadStream     = "read_stream"
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
		ScriptURL: ScriptURLForLocale(DefaultLocale),
		Locale:    DefaultLocale,
		InitOptions: map[string]any{
			"version": DefaultGraphVersion,
			"status":  false,
			"cookie":  false,
			"xfbml":   false,
		},
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

// ScriptURLForLocale builds the vendor CDN URL for a locale, e.g.
// https://connect.facebook.net/en_US/sdk.js.
func ScriptURLForLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return "https://connect.facebook.net/" + locale + "/sdk.js"
}

func PermissionScopes() map[string]string {
	return map[string]string{
		PermissionPublicProfile: ScopePublicProfile,
		PermissionEmail:         ScopeEmail,
		PermissionReadPosts:     ScopeUserPosts,
		PermissionCreatePosts:   ScopePublishActions,
		PermissionUpdatePosts:   ScopePublishActions,
		PermissionDeletePosts:   ScopePublishActions,
		PermissionReadStream:    ScopeReadStream,
	}
}

var _ core.Adapter = (*Adapter)(nil)
