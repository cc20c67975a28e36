package sqlstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-socialconnect/providers/devkit"
)

func newSQLiteClient(t *testing.T) *persistence.Client {
	t.Helper()

	client, err := OpenPersistence(PersistenceConfig{
		Driver: DriverSQLite,
		DSN: fmt.Sprintf(
			"file:socialconnect-test-%d?mode=memory&cache=shared&_foreign_keys=on",
			time.Now().UnixNano(),
		),
	})
	if err != nil {
		t.Fatalf("open persistence: %v", err)
	}
	if err := ApplyMigrations(context.Background(), client, DriverSQLite); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCredentialStore_Conformance(t *testing.T) {
	store, err := NewCredentialStoreFromPersistence(newSQLiteClient(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := devkit.ValidateCredentialStoreConformance(context.Background(), store, "client-sql"); err != nil {
		t.Fatalf("conformance: %v", err)
	}
}

func TestCredentialStore_SetOverwritesAndScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, err := NewCredentialStoreFromPersistence(newSQLiteClient(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Set(ctx, "client-a", "access_token", "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "client-a", "access_token", "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Set(ctx, "client-b", "access_token", "other"); err != nil {
		t.Fatalf("set other scope: %v", err)
	}

	value, err := store.Get(ctx, "client-a", "access_token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "second" {
		t.Fatalf("expected overwritten value, got %q", value)
	}

	keys, err := store.ScopeKeys(ctx)
	if err != nil {
		t.Fatalf("scope keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "client-a" || keys[1] != "client-b" {
		t.Fatalf("unexpected scope keys %v", keys)
	}

	if err := store.Remove(ctx, "client-a", "access_token"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, "client-a", "access_token"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	value, err = store.Get(ctx, "client-a", "access_token")
	if err != nil || value != "" {
		t.Fatalf("expected empty value after remove, got %q err=%v", value, err)
	}
	value, err = store.Get(ctx, "client-b", "access_token")
	if err != nil || value != "other" {
		t.Fatalf("expected other scope untouched, got %q err=%v", value, err)
	}
}

func TestCredentialStore_RejectsBlankKeys(t *testing.T) {
	store, err := NewCredentialStoreFromPersistence(newSQLiteClient(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set(context.Background(), " ", "access_token", "x"); err == nil {
		t.Fatalf("expected blank scope key to fail")
	}
	if _, err := store.Get(context.Background(), "client", ""); err == nil {
		t.Fatalf("expected blank field to fail")
	}
}

func TestNewCredentialStoreFromPersistence_RejectsUnsupportedClient(t *testing.T) {
	if _, err := NewCredentialStoreFromPersistence(nil); err == nil {
		t.Fatalf("expected nil client to fail")
	}
	if _, err := NewCredentialStoreFromPersistence("db"); err == nil {
		t.Fatalf("expected unsupported client type to fail")
	}
}

func TestOpenPersistence_ValidatesConfig(t *testing.T) {
	if _, err := OpenPersistence(PersistenceConfig{Driver: DriverSQLite}); err == nil {
		t.Fatalf("expected missing dsn to fail")
	}
	if _, err := OpenPersistence(PersistenceConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver to fail")
	}
}
