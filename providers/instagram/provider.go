package instagram

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-socialconnect/core"
	"github.com/goliatone/go-socialconnect/mapping"
)

const ProviderName = "instagram"

const (
	APIBaseURL   = "https://api.instagram.com/v1"
	AuthorizeURL = "https://api.instagram.com/oauth/authorize"
	TokenURL     = "https://api.instagram.com/oauth/access_token"
)

const (
	ScopeBasic         = "basic"
	ScopeComments      = "comments"
	ScopeRelationships = "relationships"
	ScopeLikes         = "likes"
)

type Config struct {
	APIBaseURL   string
	AuthorizeURL string
	TokenURL     string
	DefaultScope string
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:   APIBaseURL,
		AuthorizeURL: AuthorizeURL,
		TokenURL:     TokenURL,
		DefaultScope: ScopeBasic,
	}
}

type Provider struct {
	cfg     Config
	catalog *core.EndpointCatalog
	mapper  *mapping.Mapper
}

// New builds the provider. Empty config fields fall back to the public
// Instagram endpoints, which lets tests point only the API base at a local
// server.
func New(cfg Config) (*Provider, error) {
	defaults := DefaultConfig()
	cfg.APIBaseURL = fallback(cfg.APIBaseURL, defaults.APIBaseURL)
	cfg.AuthorizeURL = fallback(cfg.AuthorizeURL, defaults.AuthorizeURL)
	cfg.TokenURL = fallback(cfg.TokenURL, defaults.TokenURL)
	cfg.DefaultScope = fallback(cfg.DefaultScope, defaults.DefaultScope)

	catalog, err := core.NewEndpointCatalog(cfg.APIBaseURL, Endpoints()...)
	if err != nil {
		return nil, fmt.Errorf("instagram: build catalog: %w", err)
	}
	return &Provider{
		cfg:     cfg,
		catalog: catalog,
		mapper:  mapping.NewMapper(),
	}, nil
}

func (*Provider) Name() string {
	return ProviderName
}

func (p *Provider) AuthorizeURL() string {
	return p.cfg.AuthorizeURL
}

func (p *Provider) TokenURL() string {
	return p.cfg.TokenURL
}

func (p *Provider) DefaultScope() string {
	return p.cfg.DefaultScope
}

func (p *Provider) Catalog() core.Catalog {
	return p.catalog
}

func (p *Provider) EndpointCatalog() *core.EndpointCatalog {
	return p.catalog
}

func (p *Provider) Mapper() core.ResponseMapper {
	return p.mapper
}

func fallback(value string, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}

var _ core.Provider = (*Provider)(nil)
