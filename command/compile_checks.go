package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-socialconnect/core"
)

var (
	_ gocmd.Commander[AuthenticateMessage]       = (*AuthenticateCommand)(nil)
	_ gocmd.Commander[DeauthenticateMessage]     = (*DeauthenticateCommand)(nil)
	_ gocmd.Commander[CancelMessage]             = (*CancelCommand)(nil)
	_ gocmd.Commander[InvokeMessage]             = (*InvokeCommand)(nil)
	_ gocmd.Commander[StoreCredentialsMessage]   = (*StoreCredentialsCommand)(nil)
	_ gocmd.Commander[RestoreCredentialsMessage] = (*RestoreCredentialsCommand)(nil)
	_ gocmd.Commander[RemoveCredentialsMessage]  = (*RemoveCredentialsCommand)(nil)

	_ ClientService = (*core.Client)(nil)
)
