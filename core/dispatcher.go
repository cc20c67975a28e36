package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

const formContentType = "application/x-www-form-urlencoded"

// dispatcher owns the single outstanding request slot of a client. A call is
// released exactly once whatever way it ends, and an aborted call never
// reaches its completion handler.
type dispatcher struct {
	transport Transport
	loop      *Loop

	mu      sync.Mutex
	pending *pendingCall
}

type pendingCall struct {
	handle     TransportHandle
	onComplete func(TransportResult)

	abortOnce   sync.Once
	aborted     chan struct{}
	releaseOnce sync.Once
}

func newDispatcher(transport Transport, loop *Loop) *dispatcher {
	return &dispatcher{transport: transport, loop: loop}
}

func (d *dispatcher) busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// dispatch starts req and arranges for onComplete to run on the loop once the
// transport finishes. A transport that fails to start is reported through
// onComplete as well, so callers observe a single completion path.
func (d *dispatcher) dispatch(ctx context.Context, req Request, onComplete func(TransportResult)) error {
	d.mu.Lock()
	if d.pending != nil {
		d.mu.Unlock()
		return preconditionError("core: a request is already outstanding", goerrors.CategoryConflict, map[string]any{
			"operation": req.Endpoint.Name,
		})
	}
	call := &pendingCall{onComplete: onComplete, aborted: make(chan struct{})}
	d.pending = call
	d.mu.Unlock()

	handle, err := d.transport.Start(ctx, TransportRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: cloneTags(req.Headers),
		Body:    append([]byte(nil), req.Body...),
	})
	if err != nil {
		if !d.loop.Post(func() { d.complete(call, TransportResult{Err: err}) }) {
			d.release(call)
		}
		return nil
	}

	d.mu.Lock()
	call.handle = handle
	d.mu.Unlock()
	select {
	case <-call.aborted:
		handle.Abort()
	default:
	}

	go func() {
		select {
		case <-handle.Done():
		case <-call.aborted:
		}
		if !d.loop.Post(func() { d.complete(call, handle.Result()) }) {
			d.release(call)
		}
	}()
	return nil
}

// abort cancels the outstanding call, if any, and frees the slot immediately.
// The completion still runs on the loop to release the handle.
func (d *dispatcher) abort() bool {
	d.mu.Lock()
	call := d.pending
	d.pending = nil
	var handle TransportHandle
	if call != nil {
		handle = call.handle
	}
	d.mu.Unlock()
	if call == nil {
		return false
	}

	call.abortOnce.Do(func() { close(call.aborted) })
	if handle != nil {
		handle.Abort()
	}
	return true
}

// release frees the slot held by call and closes its handle once. It runs on
// the loop through complete, or directly when the loop no longer accepts tasks.
func (d *dispatcher) release(call *pendingCall) {
	d.mu.Lock()
	if d.pending == call {
		d.pending = nil
	}
	handle := call.handle
	d.mu.Unlock()

	call.releaseOnce.Do(func() {
		if handle != nil {
			_ = handle.Close()
		}
	})
}

func (d *dispatcher) complete(call *pendingCall, result TransportResult) {
	d.release(call)

	select {
	case <-call.aborted:
		return
	default:
	}
	if call.onComplete != nil {
		call.onComplete(result)
	}
}

// buildRequest resolves endpoint against params. Path placeholders are
// substituted and escaped; remaining declared params travel in the query for
// GET and DELETE or in a form body for POST, next to access_token.
func buildRequest(endpoint Endpoint, accessToken string, params Params) (Request, error) {
	for _, name := range endpoint.Required {
		if params.Get(name) == "" {
			return Request{}, badInputError("core: required parameter is missing", map[string]any{
				"operation": endpoint.Name,
				"parameter": name,
			})
		}
	}

	resolved := endpoint.URLTemplate
	inPath := map[string]struct{}{}
	for _, name := range endpoint.PathParams() {
		resolved = strings.ReplaceAll(resolved, "{"+name+"}", url.PathEscape(params.Get(name)))
		inPath[name] = struct{}{}
	}

	values := url.Values{}
	if accessToken != "" {
		values.Set("access_token", accessToken)
	}
	for _, group := range [][]string{endpoint.Required, endpoint.Optional} {
		for _, name := range group {
			if _, ok := inPath[name]; ok {
				continue
			}
			if value := params.Get(name); value != "" {
				values.Set(name, value)
			}
		}
	}

	method := strings.ToUpper(strings.TrimSpace(endpoint.Method))
	if method == "" {
		method = http.MethodGet
	}
	req := Request{
		Endpoint: endpoint,
		Method:   method,
		Headers:  map[string]string{"Accept": "application/json"},
	}
	switch method {
	case http.MethodPost, http.MethodPut:
		req.URL = resolved
		req.Body = []byte(values.Encode())
		req.Headers["Content-Type"] = formContentType
	default:
		req.URL = appendQuery(resolved, values)
	}
	return req, nil
}

func appendQuery(rawURL string, values url.Values) string {
	if len(values) == 0 {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + values.Encode()
	}
	return rawURL + "?" + values.Encode()
}
