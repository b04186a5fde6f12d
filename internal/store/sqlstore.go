// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"

	"github.com/hades-rt/hades-core/pkg/log"
)

// Driver names accepted by Open, matching the config file's db_type (spec §6).
const (
	DriverSQLite3   = "sqlite3"
	DriverPostgres  = "postgresql"
)

var registerOnce = map[string]bool{}

// SQLStore is the Store implementation over database/sql via sqlx, with
// query logging via sqlhooks and statement building via squirrel — the
// same three-library combination the teacher's repository package wires
// together, generalized from the job-archive schema to §6's tag/alarm
// schema.
type SQLStore struct {
	db      *sqlx.DB
	driver  string
	builder sq.StatementBuilderType
}

// Open connects to either a local sqlite3 file or a Postgres server and
// runs migrations up to the latest version.
func Open(driver, dsn string) (*SQLStore, error) {
	var db *sqlx.DB
	var err error

	switch driver {
	case DriverSQLite3:
		hookedName := "sqlite3WithHooks"
		if !registerOnce[hookedName] {
			sql.Register(hookedName, sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &Hooks{}))
			registerOnce[hookedName] = true
		}
		db, err = sqlx.Open(hookedName, fmt.Sprintf("%s?_foreign_keys=on", dsn))
		if err != nil {
			return nil, fmt.Errorf("store: open sqlite3: %w", err)
		}
		// sqlite3 does not support concurrent writers; serialize through
		// a single connection the way the teacher's DBConnection does.
		db.SetMaxOpenConns(1)
	case DriverPostgres:
		hookedName := "postgresWithHooks"
		if !registerOnce[hookedName] {
			sql.Register(hookedName, sqlhooks.Wrap(&pq.Driver{}, &Hooks{}))
			registerOnce[hookedName] = true
		}
		db, err = sqlx.Open(hookedName, dsn)
		if err != nil {
			return nil, fmt.Errorf("store: open postgresql: %w", err)
		}
		db.SetConnMaxLifetime(3 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	if err := migrate(driver, db.DB); err != nil {
		return nil, err
	}

	placeholder := sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}

	return &SQLStore{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) UpsertTagDefinition(ctx context.Context, def TagDefinition) error {
	var unitID, typeID int64
	if err := s.db.GetContext(ctx, &unitID, `SELECT id FROM units WHERE unit = ?`, def.Unit); err != nil {
		return fmt.Errorf("store: unit %q not seeded: %w", def.Unit, err)
	}
	if err := s.db.GetContext(ctx, &typeID, `SELECT id FROM data_types WHERE name = ?`, def.DataType); err != nil {
		return fmt.Errorf("store: data_type %q not seeded: %w", def.DataType, err)
	}

	q, args, err := s.builder.Insert("tags").
		Columns("name", "unit", "data_type", "description", "min_value", "max_value",
			"tcp_source_address", "node_namespace", "start").
		Values(def.Name, unitID, typeID, def.Description, def.MinValue, def.MaxValue,
			def.TCPSourceAddress, def.NodeNamespace, time.Now()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
		log.Warnf("store: upsert tag %q: %v", def.Name, err)
		return err
	}
	return nil
}

func (s *SQLStore) UpsertAlarmDefinition(ctx context.Context, def AlarmDefinition) error {
	var tagID, typeID int64
	if err := s.db.GetContext(ctx, &tagID, `SELECT id FROM tags WHERE name = ?`, def.TagName); err != nil {
		return fmt.Errorf("store: tag %q not found: %w", def.TagName, err)
	}
	if err := s.db.GetContext(ctx, &typeID, `SELECT id FROM alarm_types WHERE name = ?`, def.AlarmType); err != nil {
		return fmt.Errorf("store: alarm_type %q not seeded: %w", def.AlarmType, err)
	}

	q, args, err := s.builder.Insert("alarms").
		Columns("name", "tag_id", "description", "alarm_type", "trigger").
		Values(def.Name, tagID, def.Description, typeID, fmt.Sprintf("%v", def.TriggerValue)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
		log.Warnf("store: upsert alarm %q: %v", def.Name, err)
		return err
	}
	return nil
}

func (s *SQLStore) InsertTagSamples(ctx context.Context, samples []TagSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, s.db.Rebind(
		`INSERT INTO tag_values (tag_id, value, timestamp)
		 SELECT id, ?, ? FROM tags WHERE name = ?`))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		res, err := stmt.ExecContext(ctx, fmt.Sprintf("%v", sample.Value), sample.Timestamp, sample.TagName)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("store: insert sample for %q: %w", sample.TagName, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			tx.Rollback()
			return fmt.Errorf("store: insert sample for %q: unknown tag", sample.TagName)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertAlarmTransition(ctx context.Context, t AlarmTransition) error {
	var alarmID, stateID, priorityID int64
	if err := s.db.GetContext(ctx, &alarmID, `SELECT id FROM alarms WHERE name = ?`, t.AlarmName); err != nil {
		return fmt.Errorf("store: alarm %q not found: %w", t.AlarmName, err)
	}
	if err := s.db.GetContext(ctx, &stateID, `SELECT id FROM alarm_states WHERE name = ?`, t.State); err != nil {
		return fmt.Errorf("store: alarm_state %q not seeded: %w", t.State, err)
	}
	if err := s.db.GetContext(ctx, &priorityID, `SELECT id FROM alarm_priorities WHERE value = ?`, t.Priority); err != nil {
		return fmt.Errorf("store: alarm_priority %d not seeded: %w", t.Priority, err)
	}

	q, args, err := s.builder.Insert("alarm_logging").
		Columns("timestamp", "alarm_id", "state_id", "priority_id", "value").
		Values(t.Timestamp, alarmID, stateID, priorityID, fmt.Sprintf("%v", t.Value)).
		ToSql()
	if err != nil {
		return fmt.Errorf("store: build transition insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
		log.Warnf("store: insert alarm transition for %q: %v", t.AlarmName, err)
		return err
	}
	return nil
}
