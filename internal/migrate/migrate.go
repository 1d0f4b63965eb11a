package migrate

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// MigrationsDir is where goose looks for SQL migrations, relative to
// the process working directory.
const MigrationsDir = "db/migrations"

// Run applies all pending migrations using goose. It opens and closes
// its own DB handle so it is independent of the app store.
func Run(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, MigrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
