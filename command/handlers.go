package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-socialconnect/core"
)

// ClientService is the subset of *core.Client the commands drive.
type ClientService interface {
	StartAuthentication(ctx context.Context) error
	AuthorizationURL() (string, error)
	Deauthenticate() bool
	Cancel() bool
	Invoke(ctx context.Context, operation string, params core.Params) error
	StoreCredentials(ctx context.Context) error
	RestoreCredentials(ctx context.Context) (bool, error)
	RemoveCredentials(ctx context.Context) error
}

type AuthenticateCommand struct {
	service ClientService
}

func NewAuthenticateCommand(service ClientService) *AuthenticateCommand {
	return &AuthenticateCommand{service: service}
}

// Execute opens the login page and stores the authorization URL it loaded.
func (c *AuthenticateCommand) Execute(ctx context.Context, _ AuthenticateMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authenticate service is required")
	}
	if err := c.service.StartAuthentication(ctx); err != nil {
		return err
	}
	url, err := c.service.AuthorizationURL()
	if err != nil {
		return err
	}
	storeResult(ctx, AuthenticateResult{AuthorizationURL: url})
	return nil
}

type DeauthenticateCommand struct {
	service ClientService
}

func NewDeauthenticateCommand(service ClientService) *DeauthenticateCommand {
	return &DeauthenticateCommand{service: service}
}

func (c *DeauthenticateCommand) Execute(_ context.Context, _ DeauthenticateMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: deauthenticate service is required")
	}
	c.service.Deauthenticate()
	return nil
}

type CancelCommand struct {
	service ClientService
}

func NewCancelCommand(service ClientService) *CancelCommand {
	return &CancelCommand{service: service}
}

func (c *CancelCommand) Execute(ctx context.Context, _ CancelMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cancel service is required")
	}
	storeResult(ctx, CancelResult{Cancelled: c.service.Cancel()})
	return nil
}

type InvokeCommand struct {
	service ClientService
}

func NewInvokeCommand(service ClientService) *InvokeCommand {
	return &InvokeCommand{service: service}
}

func (c *InvokeCommand) Execute(ctx context.Context, msg InvokeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: invoke service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.service.Invoke(ctx, msg.Operation, msg.Params)
}

type StoreCredentialsCommand struct {
	service ClientService
}

func NewStoreCredentialsCommand(service ClientService) *StoreCredentialsCommand {
	return &StoreCredentialsCommand{service: service}
}

func (c *StoreCredentialsCommand) Execute(ctx context.Context, _ StoreCredentialsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	return c.service.StoreCredentials(ctx)
}

type RestoreCredentialsCommand struct {
	service ClientService
}

func NewRestoreCredentialsCommand(service ClientService) *RestoreCredentialsCommand {
	return &RestoreCredentialsCommand{service: service}
}

func (c *RestoreCredentialsCommand) Execute(ctx context.Context, _ RestoreCredentialsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	restored, err := c.service.RestoreCredentials(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, RestoreResult{Restored: restored})
	return nil
}

type RemoveCredentialsCommand struct {
	service ClientService
}

func NewRemoveCredentialsCommand(service ClientService) *RemoveCredentialsCommand {
	return &RemoveCredentialsCommand{service: service}
}

func (c *RemoveCredentialsCommand) Execute(ctx context.Context, _ RemoveCredentialsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	return c.service.RemoveCredentials(ctx)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
