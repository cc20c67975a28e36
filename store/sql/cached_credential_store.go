package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-socialconnect/core"
)

const credentialCacheKeyPrefix = "go-socialconnect::credential::v1"

// CachedCredentialStore serves reads from a cache and invalidates the entry
// on every write through it.
type CachedCredentialStore struct {
	base  core.CredentialStore
	cache repositorycache.CacheService
}

func NewCachedCredentialStore(base core.CredentialStore, cacheService repositorycache.CacheService) (*CachedCredentialStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base credential store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: credential cache service is required")
	}
	return &CachedCredentialStore{base: base, cache: cacheService}, nil
}

// CredentialCacheKey returns
// go-socialconnect::credential::v1::<scope_key>::<field> with each segment
// URL-path escaped.
func CredentialCacheKey(scopeKey string, field string) (string, error) {
	scopeKey, field, err := normalizeCredentialKey(scopeKey, field)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{credentialCacheKeyPrefix, url.PathEscape(scopeKey), url.PathEscape(field)}, "::"), nil
}

func (s *CachedCredentialStore) Get(ctx context.Context, scopeKey string, field string) (string, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return "", fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	cacheKey, err := CredentialCacheKey(scopeKey, field)
	if err != nil {
		return "", err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (string, error) {
		return s.base.Get(ctx, scopeKey, field)
	})
}

func (s *CachedCredentialStore) Set(ctx context.Context, scopeKey string, field string, value string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	cacheKey, err := CredentialCacheKey(scopeKey, field)
	if err != nil {
		return err
	}
	if err := s.base.Set(ctx, scopeKey, field, value); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func (s *CachedCredentialStore) Remove(ctx context.Context, scopeKey string, field string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	cacheKey, err := CredentialCacheKey(scopeKey, field)
	if err != nil {
		return err
	}
	if err := s.base.Remove(ctx, scopeKey, field); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}
