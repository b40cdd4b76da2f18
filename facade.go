package sdkloader

import (
	"fmt"

	loadercommand "github.com/goliatone/go-sdk-loader/command"
)

type CommandService interface {
	loadercommand.MutatingService
}

type Commands struct {
	Load   *loadercommand.LoadCommand
	Login  *loadercommand.LoginCommand
	Unload *loadercommand.UnloadCommand
}

// Facade bundles the typed command handlers over a loader service so hosts
// can wire them into a dispatcher without touching the service surface.
type Facade struct {
	service  CommandService
	commands Commands
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct{}

func NewFacade(service CommandService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("sdkloader: command service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Load:   loadercommand.NewLoadCommand(service),
		Login:  loadercommand.NewLoginCommand(service),
		Unload: loadercommand.NewUnloadCommand(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Service() CommandService {
	if f == nil {
		return nil
	}
	return f.service
}
