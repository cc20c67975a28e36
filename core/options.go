package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults ClientConfig) (ClientConfig, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults ClientConfig, loaded ClientConfig, runtime ClientConfig) (ClientConfig, error)
}

type clientBuilder struct {
	runtimeConfig   ClientConfig
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	transport       Transport
	webView         WebView
	credentialStore CredentialStore
	handlers        []EventHandler
}

type Option func(*clientBuilder)

func WithConfig(cfg ClientConfig) Option {
	return func(b *clientBuilder) {
		b.runtimeConfig = cfg
	}
}

func WithLogger(logger Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

func WithTransport(transport Transport) Option {
	return func(b *clientBuilder) {
		b.transport = transport
	}
}

func WithWebView(view WebView) Option {
	return func(b *clientBuilder) {
		b.webView = view
	}
}

func WithCredentialStore(store CredentialStore) Option {
	return func(b *clientBuilder) {
		b.credentialStore = store
	}
}

func WithEventHandler(handler EventHandler) Option {
	return func(b *clientBuilder) {
		if handler != nil {
			b.handlers = append(b.handlers, handler)
		}
	}
}

func defaultClientBuilder() clientBuilder {
	return clientBuilder{
		metricsRecorder: NopMetricsRecorder{},
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		webView:         NopWebView{},
		credentialStore: NewMemoryCredentialStore(),
	}
}

// StaticConfigLoader serves a fixed raw config map, mostly useful for hosts
// that already parsed flags or environment into a map.
type StaticConfigLoader struct {
	Values map[string]any
}

func (l StaticConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults ClientConfig) (ClientConfig, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = StaticConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return ClientConfig{}, err
	}
	cfg, err := cfgx.Build[ClientConfig](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[ClientConfig]((*ClientConfig).Validate),
	)
	if err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults, loaded config and runtime overrides, in
// increasing precedence. Empty strings in the upper layers never mask a lower
// value.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults ClientConfig, loaded ClientConfig, runtime ClientConfig) (ClientConfig, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[ClientConfig](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[ClientConfig]((*ClientConfig).Validate),
	)
	if err != nil {
		return ClientConfig{}, err
	}
	if err := resolved.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg ClientConfig, includeZero bool) map[string]any {
	layer := map[string]any{}
	set := func(key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			layer[key] = strings.TrimSpace(value)
		}
	}
	set("client_id", cfg.ClientID)
	set("client_secret", cfg.ClientSecret)
	set("redirect_uri", cfg.RedirectURI)
	set("scope", cfg.Scope)
	set("authorization_mode", cfg.AuthorizationMode)
	return layer
}
