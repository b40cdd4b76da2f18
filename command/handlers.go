package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-sdk-loader/core"
)

// MutatingService is the slice of the loader service the command layer
// drives.
type MutatingService interface {
	Load(ctx context.Context, req core.LoadRequest) (core.Readiness, error)
	Login(ctx context.Context, req core.LoginRequest) (core.AuthResult, error)
	Unload(ctx context.Context, adapterID string) error
}

type LoadCommand struct {
	service MutatingService
}

func NewLoadCommand(service MutatingService) *LoadCommand {
	return &LoadCommand{service: service}
}

func (c *LoadCommand) Execute(ctx context.Context, msg LoadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: load service is required")
	}
	out, err := c.service.Load(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type LoginCommand struct {
	service MutatingService
}

func NewLoginCommand(service MutatingService) *LoginCommand {
	return &LoginCommand{service: service}
}

func (c *LoginCommand) Execute(ctx context.Context, msg LoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: login service is required")
	}
	out, err := c.service.Login(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UnloadCommand struct {
	service MutatingService
}

func NewUnloadCommand(service MutatingService) *UnloadCommand {
	return &UnloadCommand{service: service}
}

func (c *UnloadCommand) Execute(ctx context.Context, msg UnloadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: unload service is required")
	}
	return c.service.Unload(ctx, msg.AdapterID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
