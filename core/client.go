package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const loggerName = "socialconnect"

// Client is the facade over one provider account: it drives authorization,
// dispatches resource calls one at a time and reports outcomes as events.
//
// Methods are safe for concurrent use. Events are delivered on the client's
// own loop, in order, never on the caller's stack.
type Client struct {
	mu sync.Mutex

	provider        Provider
	catalog         Catalog
	mapper          ResponseMapper
	transport       Transport
	webView         WebView
	credentials     CredentialStore
	logger          Logger
	metricsRecorder MetricsRecorder

	loop       *Loop
	dispatcher *dispatcher

	config        ClientConfig
	state         State
	busy          bool
	transmitting  bool
	authenticated bool
	credential    Credential
	session       *authorizationSession
	callSeq       uint64
	activeCall    uint64

	handlers   []subscription
	handlerSeq int
	closed     bool
}

type authorizationSession struct {
	ctx       context.Context
	mode      AuthorizationMode
	url       string
	startedAt time.Time
}

type subscription struct {
	id      int
	handler EventHandler
}

// Status is a point-in-time view of the client flags.
type Status struct {
	State         State
	Busy          bool
	Transmitting  bool
	Authenticated bool
}

func NewClient(provider Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("core: provider is required")
	}
	builder := defaultClientBuilder()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	loggerProvider, logger := glog.Resolve(loggerName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if loggerProvider != nil {
		if named := loggerProvider.GetLogger(loggerName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.transport == nil {
		return nil, fmt.Errorf("core: transport is required")
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.webView == nil {
		builder.webView = NopWebView{}
	}
	if builder.credentialStore == nil {
		builder.credentialStore = NewMemoryCredentialStore()
	}
	catalog := provider.Catalog()
	if catalog == nil {
		return nil, fmt.Errorf("core: provider %q has no endpoint catalog", provider.Name())
	}
	mapper := provider.Mapper()
	if mapper == nil {
		return nil, fmt.Errorf("core: provider %q has no response mapper", provider.Name())
	}

	defaults := DefaultClientConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, err
	}

	loop := NewLoop()
	client := &Client{
		provider:        provider,
		catalog:         catalog,
		mapper:          mapper,
		transport:       builder.transport,
		webView:         builder.webView,
		credentials:     builder.credentialStore,
		logger:          logger,
		metricsRecorder: builder.metricsRecorder,
		loop:            loop,
		dispatcher:      newDispatcher(builder.transport, loop),
		config:          finalConfig,
		state:           StateNotLogged,
	}
	for _, handler := range builder.handlers {
		client.subscribeLocked(handler)
	}
	client.webView.OnURLChanged(client.NotifyURLChanged)
	return client, nil
}

func (c *Client) Provider() Provider {
	return c.provider
}

func (c *Client) Catalog() Catalog {
	return c.catalog
}

func (c *Client) Config() ClientConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Client) State() State {
	return c.Status().State
}

func (c *Client) Busy() bool {
	return c.Status().Busy
}

func (c *Client) Transmitting() bool {
	return c.Status().Transmitting
}

func (c *Client) Authenticated() bool {
	return c.Status().Authenticated
}

func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential.AccessToken
}

func (c *Client) RequestToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential.RequestToken
}

func (c *Client) statusLocked() Status {
	return Status{
		State:         c.state,
		Busy:          c.busy,
		Transmitting:  c.transmitting,
		Authenticated: c.authenticated,
	}
}

// Subscribe registers handler for every subsequent event and returns a
// function that removes it.
func (c *Client) Subscribe(handler EventHandler) func() {
	if handler == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.subscribeLocked(handler)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.handlers {
				if sub.id == id {
					c.handlers = append(c.handlers[:i:i], c.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Client) subscribeLocked(handler EventHandler) int {
	c.handlerSeq++
	c.handlers = append(c.handlers, subscription{id: c.handlerSeq, handler: handler})
	return c.handlerSeq
}

// Flush waits until every event already queued has been delivered. It must
// not be called from an event handler.
func (c *Client) Flush() {
	c.loop.Flush()
}

// Close cancels outstanding work, delivers queued events and stops the loop.
// Later authentication, restore and call attempts are rejected. Like Flush it
// waits for the loop and must not be called from an event handler; a handler
// that needs to close the client should do so from another goroutine.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.Cancel()
	c.loop.Close()
	return nil
}

// emitLocked queues events for delivery to the handlers registered at the
// time of the call. Callers hold c.mu.
func (c *Client) emitLocked(events ...Event) {
	if len(events) == 0 {
		return
	}
	handlers := make([]EventHandler, 0, len(c.handlers))
	for _, sub := range c.handlers {
		handlers = append(handlers, sub.handler)
	}
	for _, event := range events {
		event := event
		c.loop.Post(func() {
			for _, handler := range handlers {
				handler(event)
			}
		})
	}
}

func propertyEvent(property string, value string) Event {
	return Event{Kind: EventPropertyChanged, Property: property, Value: value}
}

func (c *Client) SetClientID(value string) bool {
	return c.setConfigField(PropertyClientID, value, func(cfg *ClientConfig) *string { return &cfg.ClientID })
}

func (c *Client) SetClientSecret(value string) bool {
	return c.setConfigField(PropertyClientSecret, value, func(cfg *ClientConfig) *string { return &cfg.ClientSecret })
}

func (c *Client) SetRedirectURI(value string) bool {
	return c.setConfigField(PropertyRedirectURI, value, func(cfg *ClientConfig) *string { return &cfg.RedirectURI })
}

func (c *Client) SetScope(value string) bool {
	return c.setConfigField(PropertyScope, value, func(cfg *ClientConfig) *string { return &cfg.Scope })
}

func (c *Client) SetAuthorizationMode(mode AuthorizationMode) bool {
	parsed, err := ParseAuthorizationMode(string(mode))
	if err != nil {
		c.rejected(context.Background(), "set_"+PropertyAuthorizationMode, err)
		return false
	}
	return c.setConfigField(PropertyAuthorizationMode, string(parsed), func(cfg *ClientConfig) *string { return &cfg.AuthorizationMode })
}

// setConfigField updates one configuration field. The configuration is frozen
// unless the client is logged out and idle.
func (c *Client) setConfigField(property string, value string, field func(*ClientConfig) *string) bool {
	value = strings.TrimSpace(value)
	c.mu.Lock()
	if c.state != StateNotLogged || c.busy || c.dispatcher.busy() {
		status := c.statusLocked()
		c.mu.Unlock()
		c.rejected(context.Background(), "set_"+property, preconditionError(
			"core: configuration is frozen while authorization is in progress or established",
			goerrors.CategoryConflict,
			map[string]any{"property": property, "state": status.State.String(), "busy": status.Busy},
		))
		return false
	}
	target := field(&c.config)
	if *target == value {
		c.mu.Unlock()
		return true
	}
	*target = value
	c.emitLocked(propertyEvent(property, value))
	c.mu.Unlock()
	return true
}
