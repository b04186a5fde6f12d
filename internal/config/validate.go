// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchemaFile(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = loadSchemaFile
}

// Validate decodes raw as YAML, re-encodes it as JSON, and checks it
// against the embedded configuration schema.
func Validate(raw []byte) error {
	s, err := jsonschema.Compile("embedFS://schemas/config.schema.json")
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	// jsonschema validates against JSON's native type set; round-trip
	// through JSON so YAML's map[string]interface{} keys and numeric
	// types line up with what the schema expects.
	normalized, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var jv any
	if err := json.Unmarshal(normalized, &jv); err != nil {
		return err
	}

	if err := s.Validate(jv); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
