package command

import (
	"strings"

	"github.com/goliatone/go-socialconnect/core"
)

const (
	TypeAuthenticate       = "socialconnect.command.authenticate"
	TypeDeauthenticate     = "socialconnect.command.deauthenticate"
	TypeCancel             = "socialconnect.command.cancel"
	TypeInvoke             = "socialconnect.command.invoke"
	TypeStoreCredentials   = "socialconnect.command.credentials.store"
	TypeRestoreCredentials = "socialconnect.command.credentials.restore"
	TypeRemoveCredentials  = "socialconnect.command.credentials.remove"
)

type AuthenticateMessage struct{}

func (AuthenticateMessage) Type() string { return TypeAuthenticate }

type DeauthenticateMessage struct{}

func (DeauthenticateMessage) Type() string { return TypeDeauthenticate }

type CancelMessage struct{}

func (CancelMessage) Type() string { return TypeCancel }

// InvokeMessage starts the catalog operation named by Operation. The outcome
// arrives as an operation_completed or error event on the client.
type InvokeMessage struct {
	Operation string
	Params    core.Params
}

func (InvokeMessage) Type() string { return TypeInvoke }

func (m InvokeMessage) Validate() error {
	if strings.TrimSpace(m.Operation) == "" {
		return commandValidationError("operation", "operation is required")
	}
	for name := range m.Params {
		if strings.TrimSpace(name) == "" {
			return commandValidationError("params", "parameter names must not be blank")
		}
	}
	return nil
}

type StoreCredentialsMessage struct{}

func (StoreCredentialsMessage) Type() string { return TypeStoreCredentials }

type RestoreCredentialsMessage struct{}

func (RestoreCredentialsMessage) Type() string { return TypeRestoreCredentials }

type RemoveCredentialsMessage struct{}

func (RemoveCredentialsMessage) Type() string { return TypeRemoveCredentials }

type AuthenticateResult struct {
	AuthorizationURL string
}

type CancelResult struct {
	Cancelled bool
}

type RestoreResult struct {
	Restored bool
}
