package devkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-socialconnect/core"
)

// ValidateCredentialStoreConformance checks the read, overwrite and removal
// contract every credential store must honor.
func ValidateCredentialStoreConformance(ctx context.Context, store core.CredentialStore, scopeKey string) error {
	if store == nil {
		return fmt.Errorf("devkit: credential store is required")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("devkit: scope key is required")
	}

	if value, err := store.Get(ctx, scopeKey, "access_token"); err != nil {
		return err
	} else if value != "" {
		return fmt.Errorf("devkit: expected empty value for a missing entry, got %q", value)
	}
	if err := store.Set(ctx, scopeKey, "access_token", "first"); err != nil {
		return err
	}
	if err := store.Set(ctx, scopeKey, "access_token", "second"); err != nil {
		return err
	}
	if value, err := store.Get(ctx, scopeKey, "access_token"); err != nil {
		return err
	} else if value != "second" {
		return fmt.Errorf("devkit: expected overwritten value %q, got %q", "second", value)
	}
	if value, err := store.Get(ctx, scopeKey+"-other", "access_token"); err != nil {
		return err
	} else if value != "" {
		return fmt.Errorf("devkit: values must be isolated per scope key, got %q", value)
	}
	if err := store.Remove(ctx, scopeKey, "access_token"); err != nil {
		return err
	}
	if err := store.Remove(ctx, scopeKey, "access_token"); err != nil {
		return fmt.Errorf("devkit: removing a missing entry must succeed: %w", err)
	}
	if value, err := store.Get(ctx, scopeKey, "access_token"); err != nil {
		return err
	} else if value != "" {
		return fmt.Errorf("devkit: expected removed value to read empty, got %q", value)
	}
	return nil
}

// ValidateCatalogConformance checks that every endpoint resolves by name and
// declares its path parameters as required.
func ValidateCatalogConformance(catalog core.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("devkit: catalog is required")
	}
	endpoints := catalog.Endpoints()
	if len(endpoints) == 0 {
		return fmt.Errorf("devkit: catalog is empty")
	}
	for _, endpoint := range endpoints {
		found, ok := catalog.Lookup(endpoint.Name)
		if !ok {
			return fmt.Errorf("devkit: endpoint %q does not resolve", endpoint.Name)
		}
		if found.URLTemplate != endpoint.URLTemplate || found.Method != endpoint.Method {
			return fmt.Errorf("devkit: endpoint %q resolves inconsistently", endpoint.Name)
		}
		if strings.TrimSpace(endpoint.Mapper) == "" || strings.TrimSpace(endpoint.Notification) == "" {
			return fmt.Errorf("devkit: endpoint %q needs a mapper and a notification", endpoint.Name)
		}
		for _, name := range endpoint.PathParams() {
			if !containsString(endpoint.Required, name) {
				return fmt.Errorf("devkit: endpoint %q path parameter %q is not required", endpoint.Name, name)
			}
		}
	}
	return nil
}

// ValidateMapperConformance maps every endpoint kind of catalog against the
// empty list envelope, which any mapper must accept.
func ValidateMapperConformance(catalog core.Catalog, mapper core.ResponseMapper) error {
	if catalog == nil || mapper == nil {
		return fmt.Errorf("devkit: catalog and mapper are required")
	}
	for _, endpoint := range catalog.Endpoints() {
		records, err := mapper.Map(endpoint.Mapper, []byte(EmptyListResponse))
		if err != nil {
			return fmt.Errorf("devkit: mapper kind %q rejected an empty list: %w", endpoint.Mapper, err)
		}
		if len(records) != 0 {
			return fmt.Errorf("devkit: mapper kind %q produced records from an empty list", endpoint.Mapper)
		}
	}
	return nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
