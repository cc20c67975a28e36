package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	socialconnect "github.com/goliatone/go-socialconnect"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}

	var postgresFound bool
	var sqliteFound bool
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		switch entry.Dialect {
		case DialectPostgres:
			postgresFound = true
		case DialectSQLite:
			sqliteFound = true
		}
	}

	if !postgresFound {
		t.Fatalf("expected postgres filesystem")
	}
	if !sqliteFound {
		t.Fatalf("expected sqlite filesystem")
	}
}

func TestFilesystems_RejectsTreeWithoutUpMigrations(t *testing.T) {
	source := fstest.MapFS{
		"data/sql/migrations/README.md":        {Data: []byte("empty")},
		"data/sql/migrations/sqlite/README.md": {Data: []byte("empty")},
	}
	if _, err := Filesystems(source); err == nil {
		t.Fatalf("expected a tree without *.up.sql files to fail")
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	var labels []string
	_, err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		calls = append(calls, dialect)
		labels = append(labels, label)
		return nil
	}, WithValidationTargets(DialectSQLite))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 registration call, got %d", len(calls))
	}
	if calls[0] != DialectSQLite {
		t.Fatalf("expected sqlite registration, got %q", calls[0])
	}
	if labels[0] != "go-socialconnect" {
		t.Fatalf("expected default source label, got %q", labels[0])
	}
}

func TestRegister_RequiresRegisterFunc(t *testing.T) {
	if _, err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected missing register function to fail")
	}
	_, err := Register(context.Background(), func(context.Context, string, string, fs.FS) error {
		return nil
	}, WithDialectSourceLabel("custom"))
	if err != nil {
		t.Fatalf("register with custom label: %v", err)
	}
}

func TestRegister_RejectsUnknownDialect(t *testing.T) {
	called := false
	_, err := Register(context.Background(), func(context.Context, string, string, fs.FS) error {
		called = true
		return nil
	}, WithValidationTargets("mysql"))
	if err == nil {
		t.Fatalf("expected unknown dialect to fail")
	}
	if called {
		t.Fatalf("expected no registration for unknown dialect")
	}
}

func TestCredentialMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := socialconnect.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_socialconnect_credentials.up.sql",
		"data/sql/migrations/00001_socialconnect_credentials.down.sql",
		"data/sql/migrations/sqlite/00001_socialconnect_credentials.up.sql",
		"data/sql/migrations/sqlite/00001_socialconnect_credentials.down.sql",
	}
	for _, migrationPath := range paths {
		if _, err := fs.ReadFile(root, migrationPath); err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
	}
}

func TestSQLiteCredentialMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:migrations-credentials-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	sqliteMigrations, err := fs.Sub(socialconnect.GetMigrationsFS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "00001_socialconnect_credentials.up.sql"); err != nil {
		t.Fatalf("apply credentials migration up: %v", err)
	}

	insertStatement := `INSERT INTO social_credentials (id, scope_key, field, value) VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(context.Background(), insertStatement, "cred_1", "client-1", "access_token", "tok"); err != nil {
		t.Fatalf("insert credential: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), insertStatement, "cred_2", "client-1", "access_token", "tok-2"); err == nil {
		t.Fatalf("expected unique (scope_key, field) violation")
	}

	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "00001_socialconnect_credentials.down.sql"); err != nil {
		t.Fatalf("apply credentials migration down: %v", err)
	}
	var count int
	if err := db.QueryRowContext(
		context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`,
		"social_credentials",
	).Scan(&count); err != nil {
		t.Fatalf("query sqlite_master after down migration: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected social_credentials to be dropped after down migration")
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
