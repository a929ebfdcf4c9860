// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID identifies the generated config schema.
const SchemaID = "https://clubward.dev/schemas/config.schema.json"

// schemaCache holds the compiled schema to avoid recompilation.
var schemaCache *jschema.Schema

// GenerateSchema generates a JSON Schema from the Config struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Clubward Configuration"
	schema.Description = "Schema for clubward.yaml configuration files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("config").With("operation", "marshal schema").Wrap(err)
	}
	return data, nil
}

// ValidateSchema validates YAML config data against the generated JSON
// Schema, catching shape errors before koanf loading ever sees the file.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.In("config").Code("CONFIG_EMPTY").Errorf("config data is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.In("config").Code("CONFIG_INVALID_YAML").Wrap(err)
	}
	jsonData := convertToJSONTypes(yamlData)

	sch, err := getCompiledSchema()
	if err != nil {
		return oops.In("config").With("operation", "compile schema").Wrap(err)
	}
	if err := sch.Validate(jsonData); err != nil {
		return oops.In("config").Code("CONFIG_SCHEMA_VIOLATION").Wrap(err)
	}
	return nil
}

func getCompiledSchema() (*jschema.Schema, error) {
	if schemaCache != nil {
		return schemaCache, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.With("operation", "parse schema JSON").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, oops.With("operation", "add schema resource").Wrap(err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.With("operation", "compile schema").Wrap(err)
	}

	schemaCache = sch
	return sch, nil
}

// convertToJSONTypes converts YAML-parsed data to JSON-compatible types,
// recursing through maps and sequences.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[k] = convertToJSONTypes(item)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToJSONTypes(item)
		}
		return result
	default:
		return val
	}
}
