// Package parser decodes declarative wire definitions.
package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// YamlWireParser implements WireParser for YAML.
type YamlWireParser struct{}

// NewYamlWireParser creates a new YamlWireParser.
func NewYamlWireParser() ports.WireParser {
	return &YamlWireParser{}
}

// Parse unmarshals YAML bytes into a WireDefinition. Unknown top-level keys
// are rejected.
func (p *YamlWireParser) Parse(data []byte) (*entities.WireDefinition, error) {
	var def entities.WireDefinition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse wire definition: %w", err)
	}
	return &def, nil
}
