// Package socialconnect is the entry point for hosts: it re-exports the client
// types from core, builds clients for the bundled providers and exposes the
// client operations as go-command handlers.
package socialconnect

import "github.com/goliatone/go-socialconnect/core"

type Client = core.Client

type ClientConfig = core.ClientConfig

type Option = core.Option

type Provider = core.Provider

type Event = core.Event

type EventKind = core.EventKind

type Record = core.Record

type Params = core.Params

type Status = core.Status

type AuthorizationMode = core.AuthorizationMode

type CredentialStore = core.CredentialStore

type WebView = core.WebView

type Transport = core.Transport

const (
	AuthorizationModeCode  = core.AuthorizationModeCode
	AuthorizationModeToken = core.AuthorizationModeToken
)

var (
	WithConfig          = core.WithConfig
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithTransport       = core.WithTransport
	WithWebView         = core.WithWebView
	WithCredentialStore = core.WithCredentialStore
	WithEventHandler    = core.WithEventHandler
)

func DefaultClientConfig() ClientConfig {
	return core.DefaultClientConfig()
}

func NewClient(provider Provider, opts ...Option) (*Client, error) {
	return core.NewClient(provider, opts...)
}
