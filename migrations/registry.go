package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	socialconnect "github.com/goliatone/go-socialconnect"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const (
	migrationsDir = "data/sql/migrations"
	sourceLabel   = "go-socialconnect"
)

// DialectTree is the migration directory for one SQL dialect.
type DialectTree struct {
	Dialect string
	Path    string
	FS      fs.FS
}

// RegisterFunc receives one dialect tree, usually forwarding it to
// persistence.Client.RegisterSQLMigrations.
type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type registration struct {
	label   string
	targets []string
}

type Option func(*registration)

func WithDialectSourceLabel(label string) Option {
	return func(r *registration) {
		if label = strings.TrimSpace(label); label != "" {
			r.label = label
		}
	}
}

// WithValidationTargets limits registration to the named dialects.
func WithValidationTargets(dialects ...string) Option {
	return func(r *registration) {
		var targets []string
		for _, dialect := range dialects {
			dialect = strings.ToLower(strings.TrimSpace(dialect))
			if dialect != "" && !slices.Contains(targets, dialect) {
				targets = append(targets, dialect)
			}
		}
		if len(targets) > 0 {
			r.targets = targets
		}
	}
}

// Filesystems returns the postgres tree and its sqlite subdirectory, read
// from the embedded schema or from source when given. A tree without any
// *.up.sql file is an error.
func Filesystems(source ...fs.FS) ([]DialectTree, error) {
	root := socialconnect.GetMigrationsFS()
	if len(source) > 0 && source[0] != nil {
		root = source[0]
	}

	postgresFS, err := fs.Sub(root, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("migrations: open %s: %w", migrationsDir, err)
	}
	sqliteFS, err := fs.Sub(postgresFS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: open sqlite tree: %w", err)
	}

	trees := []DialectTree{
		{Dialect: DialectPostgres, Path: migrationsDir, FS: postgresFS},
		{Dialect: DialectSQLite, Path: migrationsDir + "/sqlite", FS: sqliteFS},
	}
	for _, tree := range trees {
		ups, err := fs.Glob(tree.FS, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: list %s: %w", tree.Path, err)
		}
		if len(ups) == 0 {
			return nil, fmt.Errorf("migrations: %s tree %q has no *.up.sql files", tree.Dialect, tree.Path)
		}
	}
	return trees, nil
}

// Register passes the tree of every targeted dialect to registerFn. Both
// dialects are targeted unless WithValidationTargets narrows them.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) ([]DialectTree, error) {
	if registerFn == nil {
		return nil, fmt.Errorf("migrations: register function is required")
	}
	reg := registration{
		label:   sourceLabel,
		targets: []string{DialectPostgres, DialectSQLite},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}

	trees, err := Filesystems()
	if err != nil {
		return nil, err
	}

	registered := make([]DialectTree, 0, len(reg.targets))
	for _, tree := range trees {
		if !slices.Contains(reg.targets, tree.Dialect) {
			continue
		}
		if err := registerFn(ctx, tree.Dialect, reg.label, tree.FS); err != nil {
			return registered, fmt.Errorf("migrations: register %s: %w", tree.Dialect, err)
		}
		registered = append(registered, tree)
	}
	if len(registered) == 0 {
		return nil, fmt.Errorf("migrations: no tree matches dialects %v", reg.targets)
	}
	return registered, nil
}
