package core

import (
	"fmt"
	"strings"
)

// ClientConfig holds the application registration used for authorization. It
// is owned by the client and frozen while an authorization session or request
// is outstanding.
type ClientConfig struct {
	ClientID          string `koanf:"client_id" mapstructure:"client_id"`
	ClientSecret      string `koanf:"client_secret" mapstructure:"client_secret"`
	RedirectURI       string `koanf:"redirect_uri" mapstructure:"redirect_uri"`
	Scope             string `koanf:"scope" mapstructure:"scope"`
	AuthorizationMode string `koanf:"authorization_mode" mapstructure:"authorization_mode"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		AuthorizationMode: string(AuthorizationModeCode),
	}
}

func (c ClientConfig) Validate() error {
	if _, err := ParseAuthorizationMode(c.AuthorizationMode); err != nil {
		return err
	}
	if strings.ContainsAny(c.ClientID, " \t\r\n") {
		return fmt.Errorf("core: client_id must not contain whitespace")
	}
	return nil
}

func (c ClientConfig) Mode() AuthorizationMode {
	mode, err := ParseAuthorizationMode(c.AuthorizationMode)
	if err != nil {
		return AuthorizationModeCode
	}
	return mode
}

// ResolvedScope returns the configured scope or fallback when none is set.
func (c ClientConfig) ResolvedScope(fallback string) string {
	if scope := strings.TrimSpace(c.Scope); scope != "" {
		return scope
	}
	return fallback
}
