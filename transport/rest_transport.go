package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-socialconnect/core"
)

const KindREST = "rest"

const defaultRESTClientTimeout = 30 * time.Second
const defaultRESTResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTTransport runs each request on its own goroutine and hands back an
// abortable handle. The underlying http.Client timeout is the only deadline
// applied; the client core imposes none.
type RESTTransport struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

func NewRESTTransport(client HTTPDoer) *RESTTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &RESTTransport{
		Client:               client,
		DefaultHeaders:       map[string]string{"User-Agent": "go-socialconnect"},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

// NewRESTTransportWithTimeout uses a fresh http.Client with the given timeout;
// a non-positive timeout disables it.
func NewRESTTransportWithTimeout(timeout time.Duration) *RESTTransport {
	if timeout < 0 {
		timeout = 0
	}
	return NewRESTTransport(&http.Client{Timeout: timeout})
}

func (*RESTTransport) Kind() string {
	return KindREST
}

func (t *RESTTransport) Start(ctx context.Context, req core.TransportRequest) (core.TransportHandle, error) {
	if t == nil || t.Client == nil {
		return nil, transportError(
			"transport: rest transport requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindREST},
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	parsedURL, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid request url",
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST, "url": redactURL(req.URL)},
		)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, transportError(
			"transport: request url must be absolute",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST, "url": redactURL(req.URL)},
		)
	}

	requestCtx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(requestCtx, method, parsedURL.String(), bytes.NewReader(req.Body))
	if err != nil {
		cancel()
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST, "method": method, "url": redactURL(req.URL)},
		)
	}
	for key, value := range t.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	handle := &restHandle{done: make(chan struct{}), cancel: cancel}
	go handle.run(t.Client, httpReq, resolveResponseBodyLimit(t.MaxResponseBodyBytes))
	return handle, nil
}

type restHandle struct {
	mu     sync.Mutex
	done   chan struct{}
	cancel context.CancelFunc
	result core.TransportResult
	closed bool
}

func (h *restHandle) run(client HTTPDoer, req *http.Request, maxBodyBytes int64) {
	result := execute(client, req, maxBodyBytes)
	h.mu.Lock()
	h.result = result
	h.mu.Unlock()
	close(h.done)
}

func (h *restHandle) Done() <-chan struct{} {
	return h.done
}

func (h *restHandle) Result() core.TransportResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *restHandle) Abort() {
	h.cancel()
}

func (h *restHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.cancel()
	return nil
}

func execute(client HTTPDoer, req *http.Request, maxBodyBytes int64) core.TransportResult {
	startedAt := time.Now().UTC()
	httpRes, err := client.Do(req)
	if err != nil {
		return core.TransportResult{Err: transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"adapter": KindREST, "method": req.Method, "url": redactURL(req.URL.String())},
		)}
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.TransportResult{StatusCode: httpRes.StatusCode, Err: transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"adapter": KindREST, "status_code": httpRes.StatusCode},
		)}
	}
	if int64(len(body)) > maxBodyBytes {
		return core.TransportResult{StatusCode: httpRes.StatusCode, Err: transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"adapter":          KindREST,
				"status_code":      httpRes.StatusCode,
				"response_limit_b": maxBodyBytes,
				"duration_ms":      time.Since(startedAt).Milliseconds(),
			},
		)}
	}

	return core.TransportResult{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
	}
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(limit int64) int64 {
	if limit > 0 {
		return limit
	}
	return defaultRESTResponseBodyLimit
}

// redactURL drops the query string, which carries the access token on GET and
// DELETE requests.
func redactURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

var _ core.Transport = (*RESTTransport)(nil)
