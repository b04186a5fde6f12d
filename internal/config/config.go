// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads hades-core's YAML startup configuration: database
// connection mode, tag/alarm definitions, and the automation engine's
// built-in attributes, with ${VAR} environment interpolation and schema
// validation before any of it reaches the rest of the runtime.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DevModeDB is the sqlite3 development database configuration.
type DevModeDB struct {
	DBName string `yaml:"db_name" json:"db_name"`
}

// ProdModeDB is the postgres production database configuration.
type ProdModeDB struct {
	DBType     string `yaml:"db_type" json:"db_type"`
	DBName     string `yaml:"db_name" json:"db_name"`
	DBUser     string `yaml:"db_user" json:"db_user"`
	DBPassword string `yaml:"db_password" json:"db_password"`
	DBHost     string `yaml:"db_host" json:"db_host"`
	DBPort     string `yaml:"db_port" json:"db_port"`
}

// DBConfig is the `db:` top-level section.
type DBConfig struct {
	DevMode    DevModeDB  `yaml:"dev_mode" json:"dev_mode"`
	ProdMode   ProdModeDB `yaml:"prod_mode" json:"prod_mode"`
	SampleTime float64    `yaml:"sample_time" json:"sample_time"`
	InitDelay  float64    `yaml:"init_delay" json:"init_delay"`
}

// TagDef is one entry under `modules.tags.groups.<group>` or
// `modules.engine.tags`.
type TagDef struct {
	Name             string   `yaml:"name" json:"name"`
	Unit             string   `yaml:"unit" json:"unit"`
	DataType         string   `yaml:"data_type" json:"data_type"`
	Description      string   `yaml:"description" json:"description"`
	MinValue         *float64 `yaml:"min_value" json:"min_value"`
	MaxValue         *float64 `yaml:"max_value" json:"max_value"`
	TCPSourceAddress string   `yaml:"tcp_source_address" json:"tcp_source_address"`
	NodeNamespace    string   `yaml:"node_namespace" json:"node_namespace"`
}

// AlarmDef is one entry under `modules.alarms` or `modules.engine.alarms`.
type AlarmDef struct {
	Name        string `yaml:"name" json:"name"`
	Tag         string `yaml:"tag" json:"tag"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	Trigger     any    `yaml:"trigger" json:"trigger"`
}

// TagsModule is the `modules.tags` section: named groups of tag defs.
type TagsModule struct {
	Groups map[string]map[string]TagDef `yaml:"groups" json:"groups"`
}

// EngineModule is the `modules.engine` section: the built-in automation
// machine's own tags, alarms and rolling-window parameters.
type EngineModule struct {
	Tags        map[string]TagDef   `yaml:"tags" json:"tags"`
	Alarms      map[string]AlarmDef `yaml:"alarms" json:"alarms"`
	TimeWindow  float64             `yaml:"time_window" json:"time_window"`
	Threshold   float64             `yaml:"threshold" json:"threshold"`
	RollType    string              `yaml:"roll_type" json:"roll_type"`
	SystemTags  []string            `yaml:"system_tags" json:"system_tags"`
	UtilityTags []string            `yaml:"utility_tags" json:"utility_tags"`
}

// ModulesConfig is the `modules:` top-level section.
type ModulesConfig struct {
	Tags   TagsModule          `yaml:"tags" json:"tags"`
	Alarms map[string]AlarmDef `yaml:"alarms" json:"alarms"`
	Engine EngineModule        `yaml:"engine" json:"engine"`
}

// Config is the full decoded startup configuration file.
type Config struct {
	DB      DBConfig      `yaml:"db" json:"db"`
	Modules ModulesConfig `yaml:"modules" json:"modules"`
}

// Load reads path, expands ${VAR} references against the process
// environment (after sourcing envFile with godotenv, if envFile is
// non-empty), validates the result against the embedded schema, decodes
// it as YAML into a Config, and returns it.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: loading env file %q: %w", envFile, err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	expanded := os.Expand(string(raw), func(name string) string {
		v, ok := os.LookupEnv(name)
		if !ok {
			return ""
		}
		return v
	})

	if err := Validate([]byte(expanded)); err != nil {
		return nil, fmt.Errorf("config: %q failed schema validation: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %q: %w", path, err)
	}

	return &cfg, nil
}
