package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	socialcommand "github.com/goliatone/go-socialconnect/command"
	"github.com/goliatone/go-socialconnect/core"
	socialquery "github.com/goliatone/go-socialconnect/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// DispatchWithResult dispatches msg and returns the value its command stored.
// ok is false when the command finished without storing a result.
func DispatchWithResult[T any, R any](ctx context.Context, msg T) (R, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	collector := command.NewResult[R]()
	if err := commanddispatcher.Dispatch(command.ContextWithResult(ctx, collector), msg); err != nil {
		var zero R
		return zero, false, err
	}
	value, ok := collector.Load()
	return value, ok, nil
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterCommand(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// ClientBus holds the dispatcher subscriptions of one client.
type ClientBus struct {
	subscriptions []commanddispatcher.Subscription
}

// Close unsubscribes every handler registered for the client.
func (b *ClientBus) Close() {
	if b == nil {
		return
	}
	for i := len(b.subscriptions) - 1; i >= 0; i-- {
		if b.subscriptions[i] != nil {
			b.subscriptions[i].Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *ClientBus) add(subscription commanddispatcher.Subscription, err error) error {
	if err != nil {
		return err
	}
	b.subscriptions = append(b.subscriptions, subscription)
	return nil
}

// RegisterClient subscribes every command and query of the client to the
// global dispatcher and records them in the adapter registry. On failure the
// handlers registered so far are removed.
func RegisterClient(adapter *RegistryAdapter, client *core.Client, runnerOpts ...runner.Option) (*ClientBus, error) {
	if client == nil {
		return nil, fmt.Errorf("gocommand: client is required")
	}
	bus := &ClientBus{}
	steps := []func() error{
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.AuthenticateMessage](adapter, socialcommand.NewAuthenticateCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.DeauthenticateMessage](adapter, socialcommand.NewDeauthenticateCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.CancelMessage](adapter, socialcommand.NewCancelCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.InvokeMessage](adapter, socialcommand.NewInvokeCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.StoreCredentialsMessage](adapter, socialcommand.NewStoreCredentialsCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.RestoreCredentialsMessage](adapter, socialcommand.NewRestoreCredentialsCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribe[socialcommand.RemoveCredentialsMessage](adapter, socialcommand.NewRemoveCredentialsCommand(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribeQuery[socialquery.GetStatusMessage, socialquery.StatusView](adapter, socialquery.NewGetStatusQuery(client), runnerOpts...))
		},
		func() error {
			return bus.add(RegisterAndSubscribeQuery[socialquery.ListOperationsMessage, []socialquery.OperationView](adapter, socialquery.NewListOperationsQuery(client), runnerOpts...))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			bus.Close()
			return nil, err
		}
	}
	return bus, nil
}
