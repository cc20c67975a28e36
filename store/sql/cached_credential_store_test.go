package sqlstore

import (
	"context"
	"sync"
	"testing"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type countingCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
}

func (s *countingCredentialStore) Get(_ context.Context, scopeKey string, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	return s.values[scopeKey+"/"+field], nil
}

func (s *countingCredentialStore) Set(_ context.Context, scopeKey string, field string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scopeKey+"/"+field] = value
	return nil
}

func (s *countingCredentialStore) Remove(_ context.Context, scopeKey string, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, scopeKey+"/"+field)
	return nil
}

func (s *countingCredentialStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func newTestCredentialCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	cfg := repositorycache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repositorycache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return cacheService
}

func TestCachedCredentialStore_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	base := &countingCredentialStore{values: map[string]string{"client/access_token": "tok-1"}}
	store, err := NewCachedCredentialStore(base, newTestCredentialCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	for i := 0; i < 3; i++ {
		value, err := store.Get(ctx, "client", "access_token")
		if err != nil || value != "tok-1" {
			t.Fatalf("get %d: value=%q err=%v", i, value, err)
		}
	}
	if base.getCount() != 1 {
		t.Fatalf("expected a single base read, got %d", base.getCount())
	}
}

func TestCachedCredentialStore_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	base := &countingCredentialStore{values: map[string]string{}}
	store, err := NewCachedCredentialStore(base, newTestCredentialCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	if err := store.Set(ctx, "client", "access_token", "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, _ := store.Get(ctx, "client", "access_token"); value != "tok-1" {
		t.Fatalf("expected tok-1, got %q", value)
	}
	if err := store.Set(ctx, "client", "access_token", "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if value, _ := store.Get(ctx, "client", "access_token"); value != "tok-2" {
		t.Fatalf("expected tok-2 after invalidation, got %q", value)
	}
	if err := store.Remove(ctx, "client", "access_token"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if value, _ := store.Get(ctx, "client", "access_token"); value != "" {
		t.Fatalf("expected empty value after remove, got %q", value)
	}
}

func TestCredentialCacheKey_EscapesSegments(t *testing.T) {
	key, err := CredentialCacheKey("team/a b", "access_token")
	if err != nil {
		t.Fatalf("cache key: %v", err)
	}
	if key != "go-socialconnect::credential::v1::team%2Fa%20b::access_token" {
		t.Fatalf("unexpected cache key %q", key)
	}
	if _, err := CredentialCacheKey("", "access_token"); err == nil {
		t.Fatalf("expected blank scope to fail")
	}
}

func TestNewCachedCredentialStore_RequiresDependencies(t *testing.T) {
	if _, err := NewCachedCredentialStore(nil, newTestCredentialCacheService(t)); err == nil {
		t.Fatalf("expected nil base to fail")
	}
	if _, err := NewCachedCredentialStore(&countingCredentialStore{}, nil); err == nil {
		t.Fatalf("expected nil cache to fail")
	}
}
