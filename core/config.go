package core

import (
	"fmt"
	"strings"
)

type LoginConfig struct {
	UnknownPermissions string `koanf:"unknown_permissions" mapstructure:"unknown_permissions"`
}

type Config struct {
	ServiceName string      `koanf:"service_name" mapstructure:"service_name"`
	Locale      string      `koanf:"locale" mapstructure:"locale"`
	Login       LoginConfig `koanf:"login" mapstructure:"login"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "sdk-loader",
		Locale:      "en_US",
		Login: LoginConfig{
			UnknownPermissions: string(UnknownPermissionPassthrough),
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("core: locale is required")
	}
	if mode := c.UnknownPermissionMode(); !mode.Valid() {
		return fmt.Errorf("core: invalid login.unknown_permissions %q", c.Login.UnknownPermissions)
	}
	return nil
}

func (c Config) UnknownPermissionMode() UnknownPermissionMode {
	mode := strings.TrimSpace(strings.ToLower(c.Login.UnknownPermissions))
	if mode == "" {
		return UnknownPermissionPassthrough
	}
	return UnknownPermissionMode(mode)
}
