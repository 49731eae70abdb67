// Package schema provides JSON schema generation for shard parameters and
// host configuration.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// ForParameters describes the params map of a wire definition for a shard
// with the given parameter table. Keys are parameter names; unknown keys are
// rejected.
func ForParameters(title string, params entities.Parameters) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, p := range params {
		s := forTypes(p.Types)
		s.Description = p.Help
		props.Set(p.Name, s)
	}
	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                title,
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// MarshalParameters renders ForParameters as JSON.
func MarshalParameters(title string, params entities.Parameters) ([]byte, error) {
	data, err := json.Marshal(ForParameters(title, params))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %s: %w", title, err)
	}
	return data, nil
}

func forTypes(types entities.Types) *jsonschema.Schema {
	var alts []*jsonschema.Schema
	variable := false
	for _, t := range types {
		if t.Variable {
			variable = true
		}
		if t.Basic == entities.TypeAny {
			// any literal is accepted, variables included
			return &jsonschema.Schema{}
		}
		if s := forType(t); s != nil {
			alts = append(alts, s)
		}
	}
	if variable {
		alts = append(alts, variableSchema())
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return &jsonschema.Schema{AnyOf: alts}
}

func forType(t entities.TypeInfo) *jsonschema.Schema {
	switch t.Basic {
	case entities.TypeNone:
		return &jsonschema.Schema{Type: "null"}
	case entities.TypeBool:
		return &jsonschema.Schema{Type: "boolean"}
	case entities.TypeInt:
		return &jsonschema.Schema{Type: "integer"}
	case entities.TypeFloat:
		return &jsonschema.Schema{Type: "number"}
	case entities.TypeString:
		return &jsonschema.Schema{Type: "string"}
	case entities.TypeTable:
		return &jsonschema.Schema{Type: "object"}
	case entities.TypeSeq:
		s := &jsonschema.Schema{Type: "array"}
		if len(t.Elements) > 0 {
			s.Items = forTypes(entities.Types(t.Elements).Literals())
		}
		return s
	case entities.TypeObject:
		if t.Object == entities.WireObjectType {
			return wireSchema()
		}
	}
	// objects other than wires have no textual form
	return nil
}

func variableSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("var", &jsonschema.Schema{Type: "string", MinLength: uint64Ptr(1)})
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"var"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func wireSchema() *jsonschema.Schema {
	shard := jsonschema.NewProperties()
	shard.Set("shard", &jsonschema.Schema{Type: "string"})
	shard.Set("params", &jsonschema.Schema{Type: "object"})

	props := jsonschema.NewProperties()
	props.Set("wire", &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:       "object",
			Properties: shard,
			Required:   []string{"shard"},
		},
	})
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"wire"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }
