package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// goose speaks "sqlite3" even when the driver registers as "sqlite".
const dialect = "sqlite3"

// Up applies any pending migrations from migrationsDir to the bid
// database.
func Up(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
