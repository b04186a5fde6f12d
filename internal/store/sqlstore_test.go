// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(DriverSQLite3, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func seedTagAndAlarm(t *testing.T, s *SQLStore) {
	t.Helper()
	require.NoError(t, s.UpsertTagDefinition(context.Background(), TagDefinition{
		Name:     "pressure",
		Unit:     "psi",
		DataType: "float",
	}))
	require.NoError(t, s.UpsertAlarmDefinition(context.Background(), AlarmDefinition{
		Name:         "pressure.high",
		TagName:      "pressure",
		AlarmType:    "HIGH",
		TriggerValue: 100.0,
	}))
}

func TestMigrationSeedsCatalogueRowCounts(t *testing.T) {
	s := openTestStore(t)

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM data_types`))
	require.Equal(t, 4, count)

	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM alarm_types`))
	require.Equal(t, 6, count)

	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM alarm_states`))
	require.Equal(t, 7, count)

	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM alarm_priorities`))
	require.Equal(t, 6, count)

	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM variables`))
	require.Equal(t, 20, count)

	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM units`))
	require.Equal(t, 139, count)
}

func TestUpsertTagDefinitionInsertsRow(t *testing.T) {
	s := openTestStore(t)
	seedTagAndAlarm(t, s)

	var name string
	require.NoError(t, s.db.Get(&name, `SELECT name FROM tags WHERE name = ?`, "pressure"))
	require.Equal(t, "pressure", name)
}

func TestUpsertTagDefinitionUnknownUnitFails(t *testing.T) {
	s := openTestStore(t)
	err := s.UpsertTagDefinition(context.Background(), TagDefinition{
		Name:     "bogus",
		Unit:     "not-a-real-unit",
		DataType: "float",
	})
	require.Error(t, err)
}

func TestInsertTagSamplesPersistsBatch(t *testing.T) {
	s := openTestStore(t)
	seedTagAndAlarm(t, s)

	now := time.Now()
	samples := []TagSample{
		{TagName: "pressure", Value: 42.5, Timestamp: now},
		{TagName: "pressure", Value: 43.1, Timestamp: now.Add(time.Second)},
	}
	require.NoError(t, s.InsertTagSamples(context.Background(), samples))

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM tag_values`))
	require.Equal(t, 2, count)
}

func TestInsertTagSamplesEmptyBatchIsNoop(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.InsertTagSamples(context.Background(), nil))

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM tag_values`))
	require.Equal(t, 0, count)
}

func TestInsertTagSamplesUnknownTagFails(t *testing.T) {
	s := openTestStore(t)
	err := s.InsertTagSamples(context.Background(), []TagSample{
		{TagName: "does-not-exist", Value: 1.0, Timestamp: time.Now()},
	})
	require.Error(t, err)
}

func TestInsertAlarmTransitionPersistsRow(t *testing.T) {
	s := openTestStore(t)
	seedTagAndAlarm(t, s)

	err := s.InsertAlarmTransition(context.Background(), AlarmTransition{
		AlarmName: "pressure.high",
		State:     "UNACK",
		Priority:  3,
		Value:     120.0,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM alarm_logging`))
	require.Equal(t, 1, count)
}

func TestInsertAlarmTransitionUnknownPriorityFails(t *testing.T) {
	s := openTestStore(t)
	seedTagAndAlarm(t, s)

	err := s.InsertAlarmTransition(context.Background(), AlarmTransition{
		AlarmName: "pressure.high",
		State:     "UNACK",
		Priority:  99,
		Value:     120.0,
		Timestamp: time.Now(),
	})
	require.Error(t, err)
}
