package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// CredentialStore persists opaque values scoped by a key, typically the client
// id. A missing value reads as an empty string.
type CredentialStore interface {
	Get(ctx context.Context, scopeKey string, field string) (string, error)
	Set(ctx context.Context, scopeKey string, field string, value string) error
	Remove(ctx context.Context, scopeKey string, field string) error
}

// WebView is the host surface that renders the provider login page. The client
// registers one handler through OnURLChanged and receives every navigation.
type WebView interface {
	SetActive(active bool)
	SetURL(url string)
	OnURLChanged(handler func(url string))
}

type TransportRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

type TransportResult struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Err        error
}

func (r TransportResult) ErrorString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r TransportResult) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportHandle tracks one started request. Done is closed once the request
// finishes or is aborted; Result is only meaningful after that. Close releases
// the resources held by the handle and must be safe to call after Abort.
type TransportHandle interface {
	Done() <-chan struct{}
	Result() TransportResult
	Abort()
	Close() error
}

type Transport interface {
	Start(ctx context.Context, req TransportRequest) (TransportHandle, error)
}

type ResponseMapper interface {
	Map(kind string, body []byte) ([]Record, error)
	ParseError(statusCode int, body []byte) (*APIError, bool)
}

type Catalog interface {
	Lookup(name string) (Endpoint, bool)
	Endpoints() []Endpoint
}

// Provider describes one social network: where to authorize, where to
// exchange codes, the resource endpoints it exposes and how its responses map.
type Provider interface {
	Name() string
	AuthorizeURL() string
	TokenURL() string
	DefaultScope() string
	Catalog() Catalog
	Mapper() ResponseMapper
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
