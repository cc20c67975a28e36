package socialconnect

import (
	"fmt"

	socialcommand "github.com/goliatone/go-socialconnect/command"
	socialquery "github.com/goliatone/go-socialconnect/query"
)

// CommandQueryService is what the facade needs from a client. *Client
// satisfies it.
type CommandQueryService interface {
	socialcommand.ClientService
	socialquery.StatusReader
	socialquery.CatalogReader
}

type Commands struct {
	Authenticate       *socialcommand.AuthenticateCommand
	Deauthenticate     *socialcommand.DeauthenticateCommand
	Cancel             *socialcommand.CancelCommand
	Invoke             *socialcommand.InvokeCommand
	StoreCredentials   *socialcommand.StoreCredentialsCommand
	RestoreCredentials *socialcommand.RestoreCredentialsCommand
	RemoveCredentials  *socialcommand.RemoveCredentialsCommand
}

type Queries struct {
	GetStatus      *socialquery.GetStatusQuery
	ListOperations *socialquery.ListOperationsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("socialconnect: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			Authenticate:       socialcommand.NewAuthenticateCommand(service),
			Deauthenticate:     socialcommand.NewDeauthenticateCommand(service),
			Cancel:             socialcommand.NewCancelCommand(service),
			Invoke:             socialcommand.NewInvokeCommand(service),
			StoreCredentials:   socialcommand.NewStoreCredentialsCommand(service),
			RestoreCredentials: socialcommand.NewRestoreCredentialsCommand(service),
			RemoveCredentials:  socialcommand.NewRemoveCredentialsCommand(service),
		},
		queries: Queries{
			GetStatus:      socialquery.NewGetStatusQuery(service),
			ListOperations: socialquery.NewListOperationsQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*Client)(nil)
