// Package validation checks wire definitions before any shard is built:
// structural rules with go-playground/validator and shard parameters against
// the JSON schema derived from each kind's parameter table.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/shards-sdk/go/application/schema"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// validate is a package-level singleton for better performance.
var validate = validator.New()

// DefinitionValidator validates wire definitions against a shard catalog.
type DefinitionValidator struct {
	catalog  ports.ShardCatalog
	compiled map[string]*jsonschema.Schema
	mu       sync.Mutex
}

// NewDefinitionValidator creates a new validator.
func NewDefinitionValidator(catalog ports.ShardCatalog) *DefinitionValidator {
	return &DefinitionValidator{
		catalog:  catalog,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks def and every nested wire it contains. The returned error
// is reserved for failures of the validator itself.
func (v *DefinitionValidator) Validate(def *entities.WireDefinition) (*entities.ValidationResult, error) {
	result := &entities.ValidationResult{Valid: true}
	if err := v.validateWire(def.Name, def, result); err != nil {
		return nil, err
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

func (v *DefinitionValidator) validateWire(path string, def *entities.WireDefinition, result *entities.ValidationResult) error {
	if err := validate.Struct(def); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate %s: %w", path, err)
		}
		for _, fe := range verrs {
			result.Add(path+"."+fe.Namespace(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
		}
		return nil
	}

	for i, sd := range def.Shards {
		field := fmt.Sprintf("%s.shards[%d]", path, i)
		params, ok := v.catalog.Parameters(sd.Name)
		if !ok {
			result.Add(field, fmt.Sprintf("unknown shard %q", sd.Name))
			continue
		}
		if err := v.ValidateParams(sd.Name, params, sd.Params); err != nil {
			result.Add(field+".params", err.Error())
			continue
		}
		for name, raw := range sd.Params {
			nested, ok := NestedWire(raw)
			if !ok {
				continue
			}
			sub := &entities.WireDefinition{Name: sd.Name + "." + name, Shards: nested}
			if err := v.validateWire(field+".params."+name, sub, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateParams checks a params map against the schema of a kind.
func (v *DefinitionValidator) ValidateParams(kind string, params entities.Parameters, values map[string]any) error {
	sch, err := v.schemaFor(kind, params)
	if err != nil {
		return err
	}

	// Round-trip through JSON so YAML scalars become JSON types
	b, err := json.Marshal(normalize(values))
	if err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}
	if err := sch.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid parameters: %s", leafMessage(ve))
		}
		return err
	}
	return nil
}

func (v *DefinitionValidator) schemaFor(kind string, params entities.Parameters) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[kind]; ok {
		return sch, nil
	}
	data, err := schema.MarshalParameters(kind, params)
	if err != nil {
		return nil, err
	}
	url := "shards://" + kind + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", kind, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", kind, err)
	}
	v.compiled[kind] = sch
	return sch, nil
}

// leafMessage returns the most specific cause of a validation failure.
func leafMessage(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}

// NestedWire reports whether raw is the {wire: [...]} form and returns its
// shard definitions.
func NestedWire(raw any) ([]entities.ShardDefinition, bool) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	list, ok := m["wire"].([]any)
	if !ok {
		return nil, false
	}
	out := make([]entities.ShardDefinition, 0, len(list))
	for _, item := range list {
		im, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		name, _ := im["shard"].(string)
		params, _ := im["params"].(map[string]any)
		out = append(out, entities.ShardDefinition{Name: name, Params: params})
	}
	return out, true
}

// normalize converts map[any]any produced by some YAML decoders into
// map[string]any so the value can be encoded as JSON.
func normalize(x any) any {
	switch val := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	}
	return x
}
