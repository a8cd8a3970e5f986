package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Migrate applies the schema for the connection's dialect. Every statement
// is idempotent.
func Migrate(ctx context.Context, db *DB) error {
	schema := sqliteSchema
	if db.driver == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
