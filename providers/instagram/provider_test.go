package instagram

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-socialconnect/mapping"
)

func TestNew_DefaultsAndCatalog(t *testing.T) {
	provider, err := New(Config{})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if provider.Name() != ProviderName {
		t.Fatalf("expected provider name %q, got %q", ProviderName, provider.Name())
	}
	if provider.AuthorizeURL() != AuthorizeURL || provider.TokenURL() != TokenURL {
		t.Fatalf("unexpected oauth urls: %q %q", provider.AuthorizeURL(), provider.TokenURL())
	}
	if provider.DefaultScope() != ScopeBasic {
		t.Fatalf("expected default scope basic, got %q", provider.DefaultScope())
	}

	endpoints := provider.Catalog().Endpoints()
	if len(endpoints) != 25 {
		t.Fatalf("expected 25 endpoints, got %d", len(endpoints))
	}
	for _, endpoint := range endpoints {
		if !strings.HasPrefix(endpoint.URLTemplate, APIBaseURL+"/") {
			t.Fatalf("endpoint %q not qualified against api base: %q", endpoint.Name, endpoint.URLTemplate)
		}
		if _, ok := provider.mapper.Schema(endpoint.Mapper); !ok {
			t.Fatalf("endpoint %q references unknown mapper %q", endpoint.Name, endpoint.Mapper)
		}
		if endpoint.Notification == "" {
			t.Fatalf("endpoint %q has no notification", endpoint.Name)
		}
	}
}

func TestCatalog_EndpointShapes(t *testing.T) {
	provider, err := New(Config{APIBaseURL: "http://127.0.0.1:9999/v1/"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	catalog := provider.EndpointCatalog()

	cases := []struct {
		name     string
		method   string
		url      string
		mapper   string
		required []string
	}{
		{OpGetUser, http.MethodGet, "http://127.0.0.1:9999/v1/users/{user_id}", mapping.KindUser, []string{"user_id"}},
		{OpSetUserRelationship, http.MethodPost, "http://127.0.0.1:9999/v1/users/{user_id}/relationship", mapping.KindRelationship, []string{"user_id", "action"}},
		{OpDeleteComment, http.MethodDelete, "http://127.0.0.1:9999/v1/media/{media_id}/comments/{comment_id}", mapping.KindEmpty, []string{"media_id", "comment_id"}},
		{OpGetLocationSearch, http.MethodGet, "http://127.0.0.1:9999/v1/locations/search", mapping.KindLocation, nil},
		{OpPostLike, http.MethodPost, "http://127.0.0.1:9999/v1/media/{media_id}/likes", mapping.KindEmpty, []string{"media_id"}},
	}
	for _, tc := range cases {
		endpoint := catalog.MustGet(tc.name)
		if endpoint.Method != tc.method {
			t.Fatalf("%s: expected method %s, got %s", tc.name, tc.method, endpoint.Method)
		}
		if endpoint.URLTemplate != tc.url {
			t.Fatalf("%s: expected url %q, got %q", tc.name, tc.url, endpoint.URLTemplate)
		}
		if endpoint.Mapper != tc.mapper {
			t.Fatalf("%s: expected mapper %q, got %q", tc.name, tc.mapper, endpoint.Mapper)
		}
		if strings.Join(endpoint.Required, ",") != strings.Join(tc.required, ",") {
			t.Fatalf("%s: expected required %v, got %v", tc.name, tc.required, endpoint.Required)
		}
	}

	media := catalog.MustGet(OpGetUserMediaRecent)
	if got := strings.Join(media.Optional, ","); got != "count,min_id,max_id,min_timestamp,max_timestamp" {
		t.Fatalf("unexpected media recent optional params: %s", got)
	}
}

func TestCatalog_UnknownEndpointPanics(t *testing.T) {
	provider, err := New(Config{})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, ok := provider.Catalog().Lookup("get_everything"); ok {
		t.Fatalf("expected lookup miss")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustGet to panic on unknown endpoint")
		}
	}()
	provider.EndpointCatalog().MustGet("get_everything")
}
