package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/config"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations. It opens its own
// database/sql handle through the pgx stdlib driver because goose does not
// speak the pgx pool API.
func Migrate() error {
	db, err := sql.Open("pgx", config.PostgresURL())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
