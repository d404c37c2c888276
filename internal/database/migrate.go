package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies pending migrations. Only a DB opened with New carries the
// connection string goose needs.
func (db *DB) Migrate(ctx context.Context) error {
	if db.url == "" {
		return errors.New("migrate: database opened without a connection string")
	}
	return db.withSQL(func(sqlDB *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		slog.Info("applying migrations")
		if err := goose.UpContext(runCtx, sqlDB, "migrations"); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		slog.Info("migrations applied")
		return nil
	})
}

// MigrationStatus logs applied and pending migrations.
func (db *DB) MigrationStatus(ctx context.Context) error {
	if db.url == "" {
		return errors.New("migrate: database opened without a connection string")
	}
	return db.withSQL(func(sqlDB *sql.DB) error {
		if err := goose.StatusContext(ctx, sqlDB, "migrations"); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

func (db *DB) withSQL(fn func(*sql.DB) error) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	sqlDB, err := sql.Open("pgx", db.url)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping sql connection: %w", err)
	}
	return fn(sqlDB)
}
