// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnvAndDecodes(t *testing.T) {
	t.Setenv("HADES_DB_NAME", "./var/hades.db")

	path := writeTempConfig(t, `
db:
  dev_mode:
    db_name: ${HADES_DB_NAME}
  sample_time: 1.0
  init_delay: 0.5
modules:
  tags:
    groups:
      process:
        PT-100: { name: PT-100, unit: Pa, data_type: float, description: "inlet pressure" }
  alarms:
    A1: { name: A1, tag: PT-100, type: HIGH-HIGH, trigger: 110.0 }
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DB.DevMode.DBName != "./var/hades.db" {
		t.Fatalf("expected ${HADES_DB_NAME} to expand, got %q", cfg.DB.DevMode.DBName)
	}
	if cfg.DB.SampleTime != 1.0 {
		t.Fatalf("expected sample_time 1.0, got %v", cfg.DB.SampleTime)
	}

	tag, ok := cfg.Modules.Tags.Groups["process"]["PT-100"]
	if !ok {
		t.Fatalf("expected PT-100 tag definition to be present")
	}
	if tag.Unit != "Pa" {
		t.Fatalf("expected unit Pa, got %q", tag.Unit)
	}

	alarm, ok := cfg.Modules.Alarms["A1"]
	if !ok {
		t.Fatalf("expected alarm A1 definition to be present")
	}
	if alarm.Type != "HIGH-HIGH" {
		t.Fatalf("expected type HIGH-HIGH, got %q", alarm.Type)
	}
}

func TestLoadRejectsUnknownAlarmType(t *testing.T) {
	path := writeTempConfig(t, `
modules:
  alarms:
    A1: { name: A1, tag: PT-100, type: NOT-A-REAL-TYPE }
`)

	if _, err := Load(path, ""); err == nil {
		t.Fatalf("expected schema validation to reject an unknown alarm type")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml", ""); err == nil {
		t.Fatalf("expected an error reading a nonexistent file")
	}
}
