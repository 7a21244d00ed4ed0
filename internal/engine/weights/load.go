package weights

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"buzz-workers/internal/common/validation"
	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/models"
)

var tableSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["version", "weights"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "weights": {
      "type": "object",
      "minProperties": 1,
      "patternProperties": {
        "^[a-z][a-z0-9_]*$": {"type": "number"}
      },
      "additionalProperties": false
    }
  }
}`)

type tableFile struct {
	Version     string             `yaml:"version"`
	Description string             `yaml:"description,omitempty"`
	Weights     map[string]float64 `yaml:"weights"`
}

// LoadFile reads a YAML weight table. An empty path yields Default().
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML (or JSON) weight table document.
func Parse(data []byte) (*Table, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, enginerr.NewConfigurationError("weight table", "", fmt.Sprintf("malformed document: %v", err))
	}

	result, err := tableSchema.Validate(raw)
	if err != nil {
		return nil, enginerr.NewConfigurationError("weight table", "", err.Error())
	}
	if !result.Valid {
		return nil, enginerr.NewConfigurationError("weight table", invalidField(result), strings.Join(result.GetErrorMessages(), "; "))
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, enginerr.NewConfigurationError("weight table", "", fmt.Sprintf("malformed document: %v", err))
	}

	w := make(map[models.InteractionKind]float64, len(file.Weights))
	for kind, weight := range file.Weights {
		w[models.InteractionKind(kind)] = weight
	}
	return NewTable(file.Version, w)
}

// Marshal renders t as a YAML document that Parse accepts.
func Marshal(t *Table) ([]byte, error) {
	file := tableFile{Version: t.version, Weights: make(map[string]float64, len(t.weights))}
	for kind, weight := range t.weights {
		file.Weights[string(kind)] = weight
	}
	return yaml.Marshal(file)
}

// invalidField names the first top-level field that failed validation.
func invalidField(result *validation.ValidationResult) string {
	for _, field := range []string{"version", "weights"} {
		if len(result.GetErrorsForField(field)) > 0 {
			return field
		}
	}
	return ""
}
