package core

import (
	"net/http"
	"strings"
	"testing"
)

func TestNewEndpointCatalog_QualifiesTemplates(t *testing.T) {
	catalog, err := NewEndpointCatalog("https://social.example/v1/",
		Endpoint{Name: "get_media", Method: "get", URLTemplate: "media/{media_id}", Required: []string{"media_id"}, Mapper: "media"},
		Endpoint{Name: "absolute", Method: http.MethodGet, URLTemplate: "https://other.example/x", Mapper: "empty"},
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	media, ok := catalog.Lookup("get_media")
	if !ok {
		t.Fatalf("expected get_media")
	}
	if media.URLTemplate != "https://social.example/v1/media/{media_id}" || media.Method != http.MethodGet {
		t.Fatalf("unexpected endpoint %+v", media)
	}
	if absolute, _ := catalog.Lookup("absolute"); absolute.URLTemplate != "https://other.example/x" {
		t.Fatalf("absolute templates are kept, got %q", absolute.URLTemplate)
	}
	if _, ok := catalog.Lookup("missing"); ok {
		t.Fatalf("unexpected lookup hit")
	}
	if len(catalog.Endpoints()) != 2 || catalog.BaseURL() != "https://social.example/v1" {
		t.Fatalf("unexpected catalog shape")
	}
}

func TestNewEndpointCatalog_LookupReturnsCopies(t *testing.T) {
	catalog, err := NewEndpointCatalog("https://social.example/v1",
		Endpoint{Name: "search", Method: http.MethodGet, URLTemplate: "/search", Required: []string{"q"}, Mapper: "user"},
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	first := catalog.MustGet("search")
	first.Required[0] = "mutated"
	if again := catalog.MustGet("search"); again.Required[0] != "q" {
		t.Fatalf("catalog entries must be immutable, got %v", again.Required)
	}
}

func TestNewEndpointCatalog_RejectsInvalidEntries(t *testing.T) {
	cases := map[string][]Endpoint{
		"duplicate": {
			{Name: "a", Method: http.MethodGet, URLTemplate: "/a", Mapper: "user"},
			{Name: "a", Method: http.MethodGet, URLTemplate: "/b", Mapper: "user"},
		},
		"method":     {{Name: "a", Method: http.MethodPatch, URLTemplate: "/a", Mapper: "user"}},
		"mapper":     {{Name: "a", Method: http.MethodGet, URLTemplate: "/a"}},
		"name":       {{Method: http.MethodGet, URLTemplate: "/a", Mapper: "user"}},
		"path param": {{Name: "a", Method: http.MethodGet, URLTemplate: "/a/{id}", Mapper: "user"}},
	}
	for name, endpoints := range cases {
		if _, err := NewEndpointCatalog("https://social.example", endpoints...); err == nil {
			t.Fatalf("%s: expected catalog validation error", name)
		}
	}
	if _, err := NewEndpointCatalog("  "); err == nil {
		t.Fatalf("expected missing base url error")
	}
}

func TestEndpointCatalog_MustGetPanicsOnUnknown(t *testing.T) {
	catalog, err := NewEndpointCatalog("https://social.example")
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	defer func() {
		recovered := recover()
		if recovered == nil || !strings.Contains(recovered.(string), "nope") {
			t.Fatalf("expected panic naming the endpoint, got %v", recovered)
		}
	}()
	catalog.MustGet("nope")
}
