package core

import (
	"fmt"
	"net/http"
	"strings"
)

// EndpointCatalog is an immutable lookup table of resource endpoints. URL
// templates are stored fully qualified against the base URL given at build
// time.
type EndpointCatalog struct {
	baseURL   string
	endpoints []Endpoint
	byName    map[string]int
}

func NewEndpointCatalog(baseURL string, endpoints ...Endpoint) (*EndpointCatalog, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("core: catalog base url is required")
	}
	catalog := &EndpointCatalog{
		baseURL:   baseURL,
		endpoints: make([]Endpoint, 0, len(endpoints)),
		byName:    make(map[string]int, len(endpoints)),
	}
	for _, endpoint := range endpoints {
		endpoint.Name = strings.TrimSpace(endpoint.Name)
		if endpoint.Name == "" {
			return nil, fmt.Errorf("core: endpoint name is required")
		}
		if _, exists := catalog.byName[endpoint.Name]; exists {
			return nil, fmt.Errorf("core: duplicate endpoint %q", endpoint.Name)
		}
		endpoint.Method = strings.ToUpper(strings.TrimSpace(endpoint.Method))
		switch endpoint.Method {
		case http.MethodGet, http.MethodPost, http.MethodDelete:
		default:
			return nil, fmt.Errorf("core: endpoint %q has unsupported method %q", endpoint.Name, endpoint.Method)
		}
		if strings.TrimSpace(endpoint.Mapper) == "" {
			return nil, fmt.Errorf("core: endpoint %q has no mapper", endpoint.Name)
		}
		if !strings.HasPrefix(endpoint.URLTemplate, "http://") && !strings.HasPrefix(endpoint.URLTemplate, "https://") {
			endpoint.URLTemplate = baseURL + "/" + strings.TrimLeft(endpoint.URLTemplate, "/")
		}
		for _, name := range endpoint.PathParams() {
			if !containsString(endpoint.Required, name) {
				return nil, fmt.Errorf("core: endpoint %q path parameter %q must be required", endpoint.Name, name)
			}
		}
		endpoint.Required = append([]string(nil), endpoint.Required...)
		endpoint.Optional = append([]string(nil), endpoint.Optional...)
		catalog.byName[endpoint.Name] = len(catalog.endpoints)
		catalog.endpoints = append(catalog.endpoints, endpoint)
	}
	return catalog, nil
}

func (c *EndpointCatalog) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *EndpointCatalog) Lookup(name string) (Endpoint, bool) {
	if c == nil {
		return Endpoint{}, false
	}
	idx, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Endpoint{}, false
	}
	return cloneEndpoint(c.endpoints[idx]), true
}

// MustGet returns the named endpoint and panics when it is unknown. An unknown
// name is a programming error, not a runtime condition.
func (c *EndpointCatalog) MustGet(name string) Endpoint {
	endpoint, ok := c.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("core: unknown endpoint %q", name))
	}
	return endpoint
}

func (c *EndpointCatalog) Endpoints() []Endpoint {
	if c == nil {
		return nil
	}
	out := make([]Endpoint, 0, len(c.endpoints))
	for _, endpoint := range c.endpoints {
		out = append(out, cloneEndpoint(endpoint))
	}
	return out
}

func cloneEndpoint(in Endpoint) Endpoint {
	out := in
	out.Required = append([]string(nil), in.Required...)
	out.Optional = append([]string(nil), in.Optional...)
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

var _ Catalog = (*EndpointCatalog)(nil)
