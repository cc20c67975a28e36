package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// NopWebView ignores every call. It suits hosts that drive navigation
// themselves and feed callback URLs through Client.NotifyURLChanged.
type NopWebView struct{}

func (NopWebView) SetActive(bool) {}

func (NopWebView) SetURL(string) {}

func (NopWebView) OnURLChanged(func(string)) {}

type MemoryCredentialStore struct {
	mu      sync.Mutex
	entries map[string]map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{entries: map[string]map[string]string{}}
}

func (s *MemoryCredentialStore) Get(_ context.Context, scopeKey string, field string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("core: credential store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[strings.TrimSpace(scopeKey)][field], nil
}

func (s *MemoryCredentialStore) Set(_ context.Context, scopeKey string, field string, value string) error {
	if s == nil {
		return fmt.Errorf("core: credential store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("core: credential scope key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	scope, ok := s.entries[scopeKey]
	if !ok {
		scope = map[string]string{}
		s.entries[scopeKey] = scope
	}
	scope[field] = value
	return nil
}

func (s *MemoryCredentialStore) Remove(_ context.Context, scopeKey string, field string) error {
	if s == nil {
		return fmt.Errorf("core: credential store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	scope, ok := s.entries[scopeKey]
	if !ok {
		return nil
	}
	delete(scope, field)
	if len(scope) == 0 {
		delete(s.entries, scopeKey)
	}
	return nil
}

var (
	_ WebView         = NopWebView{}
	_ CredentialStore = (*MemoryCredentialStore)(nil)
)
