package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"
)

const (
	testAuthorizeURL = "https://social.example/oauth/authorize"
	testTokenURL     = "https://social.example/oauth/access_token"
	testRedirectURI  = "https://app.example/callback"
)

type testProvider struct {
	catalog Catalog
	mapper  ResponseMapper
}

func newTestProvider(t *testing.T) testProvider {
	t.Helper()
	catalog, err := NewEndpointCatalog("https://social.example/v1",
		Endpoint{Name: "get_user", Method: http.MethodGet, URLTemplate: "/users/{user_id}", Required: []string{"user_id"}, Mapper: "user", Notification: "getUserCompleted"},
		Endpoint{Name: "search_users", Method: http.MethodGet, URLTemplate: "/users/search", Required: []string{"q"}, Optional: []string{"count"}, Mapper: "user", Notification: "searchUsersCompleted"},
		Endpoint{Name: "post_comment", Method: http.MethodPost, URLTemplate: "/media/{media_id}/comments", Required: []string{"media_id", "text"}, Mapper: "empty", Notification: "postCommentCompleted"},
		Endpoint{Name: "delete_like", Method: http.MethodDelete, URLTemplate: "/media/{media_id}/likes", Required: []string{"media_id"}, Mapper: "empty", Notification: "deleteLikeCompleted"},
	)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return testProvider{catalog: catalog, mapper: stubMapper{}}
}

func (testProvider) Name() string { return "social" }

func (testProvider) AuthorizeURL() string { return testAuthorizeURL }

func (testProvider) TokenURL() string { return testTokenURL }

func (testProvider) DefaultScope() string { return "basic" }

func (p testProvider) Catalog() Catalog { return p.catalog }

func (p testProvider) Mapper() ResponseMapper { return p.mapper }

// stubMapper flattens the "data" member into records with sorted keys. The
// authorization kind reads access_token from the root.
type stubMapper struct{}

func (stubMapper) Map(kind string, body []byte) ([]Record, error) {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, err
	}
	if kind == OperationAuthorization {
		record := NewRecord(1)
		record.Set(PropertyAccessToken, fmt.Sprint(root["access_token"]))
		return []Record{record}, nil
	}
	if kind == "empty" {
		return []Record{}, nil
	}
	switch data := root["data"].(type) {
	case nil:
		return []Record{}, nil
	case map[string]any:
		return []Record{stubRecord(data)}, nil
	case []any:
		out := make([]Record, 0, len(data))
		for _, item := range data {
			object, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("stub mapper: unexpected item %T", item)
			}
			out = append(out, stubRecord(object))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("stub mapper: unexpected data %T", data)
	}
}

func stubRecord(object map[string]any) Record {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	record := NewRecord(len(keys))
	for _, key := range keys {
		record.Set(key, fmt.Sprint(object[key]))
	}
	return record
}

func (stubMapper) ParseError(statusCode int, body []byte) (*APIError, bool) {
	var envelope struct {
		Meta struct {
			ErrorType    string `json:"error_type"`
			Code         int    `json:"code"`
			ErrorMessage string `json:"error_message"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Meta.ErrorType == "" {
		return nil, false
	}
	return &APIError{
		Type:       envelope.Meta.ErrorType,
		Code:       fmt.Sprint(envelope.Meta.Code),
		Message:    envelope.Meta.ErrorMessage,
		StatusCode: statusCode,
	}, true
}

type fakeTransport struct {
	mu       sync.Mutex
	requests []TransportRequest
	handles  []*fakeHandle
	scripted []TransportResult
	manual   bool
	startErr error
}

// respond queues a result for the next started request.
func (f *fakeTransport) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripted = append(f.scripted, TransportResult{StatusCode: status, Body: []byte(body)})
}

func (f *fakeTransport) Start(_ context.Context, req TransportRequest) (TransportHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.requests = append(f.requests, req)
	handle := &fakeHandle{done: make(chan struct{})}
	f.handles = append(f.handles, handle)
	if f.manual {
		return handle, nil
	}
	result := TransportResult{StatusCode: http.StatusOK, Body: []byte(`{"data":null}`)}
	if len(f.scripted) > 0 {
		result = f.scripted[0]
		f.scripted = f.scripted[1:]
	}
	handle.finish(result)
	return handle, nil
}

func (f *fakeTransport) recorded() []TransportRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TransportRequest(nil), f.requests...)
}

func (f *fakeTransport) handle(index int) *fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.handles) {
		return nil
	}
	return f.handles[index]
}

type fakeHandle struct {
	mu     sync.Mutex
	done   chan struct{}
	result TransportResult
	once   sync.Once
	aborts int
	closes int
}

func (h *fakeHandle) finish(result TransportResult) {
	h.once.Do(func() {
		h.mu.Lock()
		h.result = result
		h.mu.Unlock()
		close(h.done)
	})
}

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Result() TransportResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *fakeHandle) Abort() {
	h.mu.Lock()
	h.aborts++
	h.mu.Unlock()
	h.finish(TransportResult{Err: context.Canceled})
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	return nil
}

func (h *fakeHandle) counts() (aborts int, closes int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborts, h.closes
}

type fakeWebView struct {
	mu      sync.Mutex
	active  []bool
	urls    []string
	handler func(string)
}

func (w *fakeWebView) SetActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = append(w.active, active)
}

func (w *fakeWebView) SetURL(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.urls = append(w.urls, url)
}

func (w *fakeWebView) OnURLChanged(handler func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

func (w *fakeWebView) navigate(url string) {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler != nil {
		handler(url)
	}
}

func (w *fakeWebView) snapshot() ([]bool, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]bool(nil), w.active...), append([]string(nil), w.urls...)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) handle(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *eventRecorder) kinds(filter ...EventKind) []EventKind {
	out := []EventKind{}
	for _, event := range r.all() {
		if len(filter) > 0 && !containsKind(filter, event.Kind) {
			continue
		}
		out = append(out, event.Kind)
	}
	return out
}

func (r *eventRecorder) ofKind(kind EventKind) []Event {
	out := []Event{}
	for _, event := range r.all() {
		if event.Kind == kind {
			out = append(out, event)
		}
	}
	return out
}

func containsKind(kinds []EventKind, kind EventKind) bool {
	for _, candidate := range kinds {
		if candidate == kind {
			return true
		}
	}
	return false
}

type clientFixture struct {
	client    *Client
	transport *fakeTransport
	webView   *fakeWebView
	events    *eventRecorder
	store     *MemoryCredentialStore
}

func newClientFixture(t *testing.T, mode AuthorizationMode, opts ...Option) clientFixture {
	t.Helper()
	fixture := clientFixture{
		transport: &fakeTransport{},
		webView:   &fakeWebView{},
		events:    &eventRecorder{},
		store:     NewMemoryCredentialStore(),
	}
	base := []Option{
		WithConfig(ClientConfig{
			ClientID:          "client-1",
			ClientSecret:      "secret-1",
			RedirectURI:       testRedirectURI,
			AuthorizationMode: string(mode),
		}),
		WithTransport(fixture.transport),
		WithWebView(fixture.webView),
		WithCredentialStore(fixture.store),
		WithEventHandler(fixture.events.handle),
	}
	client, err := NewClient(newTestProvider(t), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	fixture.client = client
	return fixture
}

// login restores a stored token so resource calls can be exercised without
// the redirect flow.
func (f clientFixture) login(t *testing.T) {
	t.Helper()
	if err := f.store.Set(context.Background(), "client-1", "access_token", "tok-1"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	restored, err := f.client.RestoreCredentials(context.Background())
	if err != nil || !restored {
		t.Fatalf("restore credentials: restored=%v err=%v", restored, err)
	}
	f.client.Flush()
}

// waitFor polls cond until it holds, flushing the client loop in between.
func waitFor(t *testing.T, client *Client, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		client.Flush()
		if cond() {
			client.Flush()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any)                  {}
func (stubLogger) Debug(string, ...any)                  {}
func (stubLogger) Info(string, ...any)                   {}
func (stubLogger) Warn(string, ...any)                   {}
func (stubLogger) Error(string, ...any)                  {}
func (stubLogger) Fatal(string, ...any)                  {}
func (l stubLogger) WithContext(context.Context) Logger { return l }

type stubLoggerProvider struct {
	logger Logger
}

func (p stubLoggerProvider) GetLogger(string) Logger {
	return p.logger
}

type mapRawLoader struct {
	values map[string]any
	err    error
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.values, nil
}
