package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"CustomerChurnPrediction/internal/features"
)

// schemaDocument is the object form of a schema artifact.
type schemaDocument struct {
	FeatureNames []string `json:"feature_names" yaml:"feature_names"`
}

// LoadSchema reads a feature schema artifact. YAML is used for .yaml/.yml
// files and JSON otherwise; both accept either a bare list of column names
// or an object with a feature_names key. The result is validated.
func LoadSchema(path string) (features.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		names, err = decodeSchema(data, yaml.Unmarshal)
	default:
		names, err = decodeSchema(data, json.Unmarshal)
	}
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	schema := features.Schema(names)
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

func decodeSchema(data []byte, unmarshal func([]byte, any) error) ([]string, error) {
	var names []string
	if err := unmarshal(data, &names); err == nil {
		return names, nil
	}
	var doc schemaDocument
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.FeatureNames, nil
}
