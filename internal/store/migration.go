// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/hades-rt/hades-core/pkg/log"
)

//go:embed migrations/*
var migrationFiles embed.FS

// migrate runs every pending migration, including the seed rows spec §6
// requires to exist after first init (alarm types, alarm states,
// priorities, variables, units, data types).
func migrate(driver string, db *sql.DB) error {
	var m *migrate.Migrate

	switch driver {
	case DriverSQLite3:
		dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("store: migrate driver: %w", err)
		}
		src, err := iofs.New(migrationFiles, "migrations/sqlite3")
		if err != nil {
			return fmt.Errorf("store: migrate source: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", dbDriver)
		if err != nil {
			return fmt.Errorf("store: migrate instance: %w", err)
		}
	case DriverPostgres:
		dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			return fmt.Errorf("store: migrate driver: %w", err)
		}
		src, err := iofs.New(migrationFiles, "migrations/postgres")
		if err != nil {
			return fmt.Errorf("store: migrate source: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", dbDriver)
		if err != nil {
			return fmt.Errorf("store: migrate instance: %w", err)
		}
	default:
		return fmt.Errorf("store: unsupported driver %q", driver)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: migrate up: %w", err)
	}
	log.Info("store: schema migrated")
	return nil
}
