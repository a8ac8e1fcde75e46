package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

const (
	schemaFileName = "config.schema.json"
	schemaFilePerm = 0o644
)

// GenerateSchema returns the JSON schema of config.toml. Property names are
// the TOML keys and no key is required, since defaults fill the gaps.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/bnema/tooldeck/config.schema.json"
	schema.Title = "tooldeck configuration"
	schema.Description = "Configuration schema for tooldeck, a tabbed document viewer"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// WriteSchemaFile writes the schema next to the config file and returns its
// path.
func WriteSchemaFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	data, err := GenerateSchema()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(configDir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, schemaFileName)
	if err := os.WriteFile(path, data, schemaFilePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return path, nil
}
