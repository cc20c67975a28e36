package devkit

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/goliatone/go-socialconnect/core"
)

// TransportScript is one canned outcome. A non-nil StartErr makes Start fail
// instead of returning a handle.
type TransportScript struct {
	Result   core.TransportResult
	StartErr error
}

func Respond(status int, body string) TransportScript {
	return TransportScript{Result: core.TransportResult{StatusCode: status, Body: []byte(body)}}
}

// FakeTransport replays scripts in order and records every request. The last
// script repeats once the list is exhausted. In manual mode handles stay open
// until Complete is called.
type FakeTransport struct {
	mu       sync.Mutex
	scripts  []TransportScript
	requests []core.TransportRequest
	handles  []*FakeHandle
	manual   bool
}

func NewFakeTransport(scripts ...TransportScript) *FakeTransport {
	return &FakeTransport{scripts: append([]TransportScript(nil), scripts...)}
}

// NewManualTransport returns a transport whose requests never finish on
// their own.
func NewManualTransport() *FakeTransport {
	return &FakeTransport{manual: true}
}

func (t *FakeTransport) Script(scripts ...TransportScript) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scripts = append(t.scripts, scripts...)
}

func (t *FakeTransport) Start(_ context.Context, req core.TransportRequest) (core.TransportHandle, error) {
	if t == nil {
		return nil, fmt.Errorf("devkit: fake transport is nil")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	index := len(t.requests)
	t.requests = append(t.requests, cloneRequest(req))
	script := TransportScript{Result: core.TransportResult{StatusCode: http.StatusOK, Body: []byte(`{"meta":{"code":200},"data":null}`)}}
	if index < len(t.scripts) {
		script = t.scripts[index]
	} else if len(t.scripts) > 0 {
		script = t.scripts[len(t.scripts)-1]
	}
	if script.StartErr != nil {
		return nil, script.StartErr
	}

	handle := &FakeHandle{done: make(chan struct{})}
	t.handles = append(t.handles, handle)
	if !t.manual {
		handle.Complete(script.Result)
	}
	return handle, nil
}

func (t *FakeTransport) Requests() []core.TransportRequest {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.TransportRequest, 0, len(t.requests))
	for _, req := range t.requests {
		out = append(out, cloneRequest(req))
	}
	return out
}

// Handle returns the handle of the index-th started request.
func (t *FakeTransport) Handle(index int) *FakeHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.handles) {
		return nil
	}
	return t.handles[index]
}

type FakeHandle struct {
	mu     sync.Mutex
	done   chan struct{}
	once   sync.Once
	result core.TransportResult
	aborts int
	closes int
}

// Complete finishes the request with result. Later calls are ignored.
func (h *FakeHandle) Complete(result core.TransportResult) {
	h.once.Do(func() {
		h.mu.Lock()
		h.result = result
		h.mu.Unlock()
		close(h.done)
	})
}

func (h *FakeHandle) Done() <-chan struct{} {
	return h.done
}

func (h *FakeHandle) Result() core.TransportResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *FakeHandle) Abort() {
	h.mu.Lock()
	h.aborts++
	h.mu.Unlock()
	h.Complete(core.TransportResult{Err: context.Canceled})
}

func (h *FakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	return nil
}

func (h *FakeHandle) Aborts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborts
}

func (h *FakeHandle) Closes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

func cloneRequest(in core.TransportRequest) core.TransportRequest {
	out := core.TransportRequest{
		Method:  in.Method,
		URL:     in.URL,
		Headers: map[string]string{},
		Body:    append([]byte(nil), in.Body...),
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	return out
}

var (
	_ core.Transport       = (*FakeTransport)(nil)
	_ core.TransportHandle = (*FakeHandle)(nil)
)
