package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[LoadMessage]   = (*LoadCommand)(nil)
	_ gocmd.Commander[LoginMessage]  = (*LoginCommand)(nil)
	_ gocmd.Commander[UnloadMessage] = (*UnloadCommand)(nil)
)
