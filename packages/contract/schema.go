package contract

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// manifestSchema is the JSON schema every manifest must satisfy before the
// document is converted to the contract model.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "host"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "kind": {"type": "string", "enum": ["interface", "struct"]},
    "scheme": {"type": "string", "enum": ["http", "https"]},
    "host": {"type": "string", "minLength": 1},
    "port": {"type": "integer", "minimum": 0, "maximum": 65535},
    "basePath": {"type": "string"},
    "connectTimeout": {"type": "integer", "minimum": 1},
    "operations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "returns": {"type": "string"},
          "provided": {"type": "boolean"},
          "request": {
            "type": "object",
            "required": ["endpoint"],
            "properties": {
              "verb": {"type": "string", "enum": ["GET", "HEAD", "DELETE", "POST", "PUT"]},
              "endpoint": {"type": "string"},
              "readTimeout": {"type": "integer", "minimum": 1}
            },
            "additionalProperties": false
          },
          "params": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["arg"],
              "properties": {
                "arg": {"type": "string", "minLength": 1},
                "type": {"type": "string"},
                "path": {"type": "string"},
                "query": {"type": "string"},
                "header": {"type": "string"},
                "body": {"type": "boolean"},
                "required": {"type": "boolean"}
              },
              "additionalProperties": false
            }
          }
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// SchemaError holds the enumerated schema violations of one manifest
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest schema violations: %s", strings.Join(e.Violations, "; "))
}

func checkManifestSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("manifest schema check failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{}
	for _, desc := range result.Errors() {
		schemaErr.Violations = append(schemaErr.Violations, desc.String())
	}
	return schemaErr
}
