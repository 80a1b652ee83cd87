package db

import (
	"context"
	"embed"
	"fmt"
)

//go:embed sql/schema.sql
var schemaFS embed.FS

// Migrate applies the embedded schema. All statements are idempotent, so
// this is safe to run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	schema, err := schemaFS.ReadFile("sql/schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}

	if _, err := db.pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
