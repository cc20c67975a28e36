package socialconnect

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-socialconnect/core"
	"github.com/goliatone/go-socialconnect/providers/devkit"
	"github.com/goliatone/go-socialconnect/providers/instagram"
)

func TestNewInstagramClient_CallsRESTEndpoint(t *testing.T) {
	var mu sync.Mutex
	var seen *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = r.Clone(context.Background())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(devkit.UserResponse))
	}))
	defer server.Close()

	store := core.NewMemoryCredentialStore()
	if err := store.Set(context.Background(), "client-1", "access_token", "tok-1"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	completed := make(chan Event, 1)
	client, err := NewInstagramClient(instagram.Config{APIBaseURL: server.URL + "/v1"},
		WithConfig(ClientConfig{ClientID: "client-1", RedirectURI: "https://app.example/cb"}),
		WithCredentialStore(store),
		WithEventHandler(func(event Event) {
			if event.Kind == core.EventOperationCompleted {
				completed <- event
			}
		}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if restored, err := client.RestoreCredentials(context.Background()); err != nil || !restored {
		t.Fatalf("restore: restored=%v err=%v", restored, err)
	}
	if err := client.Invoke(context.Background(), instagram.OpGetUser, Params{"user_id": "1574083"}); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	var event Event
	select {
	case event = <-completed:
	case <-time.After(5 * time.Second):
		t.Fatalf("operation did not complete")
	}
	if !event.Success || len(event.Records) != 1 {
		t.Fatalf("unexpected completion %#v", event)
	}
	if got := event.Records[0].Get("user_username"); got != "snoopdogg" {
		t.Fatalf("expected user_username snoopdogg, got %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if seen == nil {
		t.Fatalf("expected the server to receive a request")
	}
	if seen.Method != http.MethodGet || seen.URL.Path != "/v1/users/1574083" {
		t.Fatalf("unexpected request %s %s", seen.Method, seen.URL.Path)
	}
	if seen.URL.Query().Get("access_token") != "tok-1" {
		t.Fatalf("expected access_token in query, got %q", seen.URL.RawQuery)
	}
}

func TestProviderRegistry_ResolvesBundledProviders(t *testing.T) {
	registry := DefaultProviderRegistry()
	names := registry.Names()
	if len(names) != 1 || names[0] != instagram.ProviderName {
		t.Fatalf("unexpected provider names %v", names)
	}
	provider, err := registry.Provider(" Instagram ")
	if err != nil {
		t.Fatalf("resolve provider: %v", err)
	}
	if provider.Name() != instagram.ProviderName {
		t.Fatalf("unexpected provider %q", provider.Name())
	}
	if _, err := registry.Provider("myspace"); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
}

func TestProviderRegistry_RejectsDuplicatesAndNilFactories(t *testing.T) {
	registry := NewProviderRegistry()
	factory := func() (core.Provider, error) { return instagram.New(instagram.DefaultConfig()) }
	if err := registry.Register("insta", factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("INSTA", factory); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("other", nil); err == nil {
		t.Fatalf("expected nil factory to fail")
	}
	if err := registry.Register(" ", factory); err == nil {
		t.Fatalf("expected blank name to fail")
	}
	client, err := registry.NewClient("insta", WithConfig(ClientConfig{ClientID: "c"}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()
	if client.Provider().Name() != instagram.ProviderName {
		t.Fatalf("unexpected client provider %q", client.Provider().Name())
	}
}

func TestGetMigrationsFS_ShipsBothDialects(t *testing.T) {
	root := GetMigrationsFS()
	for _, pattern := range []string{"data/sql/migrations/*.up.sql", "data/sql/migrations/sqlite/*.up.sql"} {
		matches, err := fs.Glob(root, pattern)
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			t.Fatalf("expected migrations for %s", pattern)
		}
		for _, match := range matches {
			content, err := fs.ReadFile(root, match)
			if err != nil {
				t.Fatalf("read %s: %v", match, err)
			}
			if !strings.Contains(string(content), "social_credentials") {
				t.Fatalf("expected %s to define social_credentials", match)
			}
		}
	}
}
