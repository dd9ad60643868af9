package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// MigratePostgres creates any missing tables. Statements are idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	ddl, err := schemaFS.ReadFile("schema/postgres.sql")
	if err != nil {
		return err
	}

	// no arguments: pgx sends this over the simple protocol, which allows several statements
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}

	return nil
}

func migrateSQLite(ctx context.Context, conn *sql.DB) error {
	ddl, err := schemaFS.ReadFile("schema/sqlite.sql")
	if err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}

	return nil
}
