package sqlstore

import (
	"context"
	"fmt"
	"io/fs"

	persistence "github.com/goliatone/go-persistence-bun"
	socialmigrations "github.com/goliatone/go-socialconnect/migrations"
)

// ApplyMigrations registers the embedded credential schema for driver and
// runs it against client.
func ApplyMigrations(ctx context.Context, client *persistence.Client, driver string) error {
	if client == nil {
		return fmt.Errorf("sqlstore: persistence client is required")
	}
	dialect := socialmigrations.DialectSQLite
	if driver == DriverPostgres {
		dialect = socialmigrations.DialectPostgres
	}
	_, err := socialmigrations.Register(ctx, func(_ context.Context, _ string, _ string, fsys fs.FS) error {
		client.RegisterSQLMigrations(fsys)
		return nil
	}, socialmigrations.WithValidationTargets(dialect))
	if err != nil {
		return err
	}
	return client.Migrate(ctx)
}
