package command

import (
	"strings"

	"github.com/goliatone/go-sdk-loader/core"
)

const (
	TypeLoad   = "sdkloader.command.load"
	TypeLogin  = "sdkloader.command.login"
	TypeUnload = "sdkloader.command.unload"
)

type LoadMessage struct {
	Request core.LoadRequest
}

func (LoadMessage) Type() string { return TypeLoad }

func (m LoadMessage) Validate() error {
	if strings.TrimSpace(m.Request.AdapterID) == "" {
		return commandValidationError("adapter_id", "adapter id is required")
	}
	return nil
}

type LoginMessage struct {
	Request core.LoginRequest
}

func (LoginMessage) Type() string { return TypeLogin }

func (m LoginMessage) Validate() error {
	if strings.TrimSpace(m.Request.AdapterID) == "" {
		return commandValidationError("adapter_id", "adapter id is required")
	}
	return nil
}

type UnloadMessage struct {
	AdapterID string
}

func (UnloadMessage) Type() string { return TypeUnload }

func (m UnloadMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return commandValidationError("adapter_id", "adapter id is required")
	}
	return nil
}
