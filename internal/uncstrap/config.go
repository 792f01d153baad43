// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const configSchemaName = "config.schema.json"

//go:embed config.schema.json
var configSchemaData []byte

//nolint:gochecknoglobals
var (
	configSchema     *jsonschema.Schema
	configSchemaErr  error
	configSchemaOnce sync.Once
)

// Config is the per project uncstrap configuration.
type Config struct {
	// ExcludeList contains path fragments. Source files with any of them in
	// their path are not checked.
	ExcludeList []string `yaml:"exclude_list"`
}

func compileConfigSchema() (*jsonschema.Schema, error) {
	configSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configSchemaData))
		if err != nil {
			configSchemaErr = fmt.Errorf("unmarshal config schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()

		err = compiler.AddResource(configSchemaName, doc)
		if err != nil {
			configSchemaErr = fmt.Errorf("add config schema resource: %w", err)
			return
		}

		configSchema, configSchemaErr = compiler.Compile(configSchemaName)
	})

	return configSchema, configSchemaErr
}

// validateConfig validates the YAML document against the config schema.
//
// The schema works on JSON values, so the document is converted to JSON
// first.
func validateConfig(data []byte) error {
	schema, err := compileConfigSchema()
	if err != nil {
		return err
	}

	var raw any

	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert to JSON: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}

	err = schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// ParseConfig parses and validates the YAML config.
func ParseConfig(data []byte) (*Config, error) {
	err := validateConfig(data)
	if err != nil {
		return nil, err
	}

	var config Config

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	return &config, nil
}

// LoadConfig reads the YAML config file at the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}
