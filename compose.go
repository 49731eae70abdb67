package shards

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// InstanceData is the static context a shard composes against.
type InstanceData struct {
	// InputType is the output type of the preceding shard.
	InputType entities.TypeInfo
	// Shared lists every variable exposed by ancestors and earlier siblings.
	Shared entities.ExposedTypes
	// Wire names the enclosing wire.
	Wire string
}

// WithShared returns a copy of d whose shared list is extended with extra.
// d itself is not modified.
func (d InstanceData) WithShared(extra ...entities.ExposedInfo) InstanceData {
	d.Shared = d.Shared.With(extra...)
	return d
}

// WithInput returns a copy of d with a different input type.
func (d InstanceData) WithInput(t entities.TypeInfo) InstanceData {
	d.InputType = t
	return d
}

// ComposeResult is the outcome of composing a wire.
type ComposeResult struct {
	OutputType entities.TypeInfo
	// Exposed lists the variables declared by shards of the wire, in order.
	Exposed entities.ExposedTypes
	// Required lists the variables the wire consumed from its ancestors.
	Required entities.ExposedTypes
}

// CheckRequired verifies that every entry of required is satisfied by shared.
// Protected entries count.
func CheckRequired(shard string, required, shared entities.ExposedTypes) error {
	for _, req := range required {
		found, ok := shared.Find(req.Name)
		if !ok {
			return &sdkErrors.CompositionError{Shard: shard, Variable: req.Name, Message: "required variable not found"}
		}
		if !req.Type.Accepts(found.Type) {
			return &sdkErrors.CompositionError{
				Shard:    shard,
				Variable: req.Name,
				Message:  fmt.Sprintf("required variable has type %s, expected %s", found.Type, req.Type),
			}
		}
		if req.Mutable && !found.Mutable {
			return &sdkErrors.CompositionError{Shard: shard, Variable: req.Name, Message: "required variable is not mutable"}
		}
	}
	return nil
}

// ComposeShard type-checks the input of s, verifies its requirements and
// composes it. Errors from the shard that are not CompositionErrors are wrapped.
func ComposeShard(s Shard, data InstanceData) (entities.TypeInfo, error) {
	if data.InputType.Basic != entities.TypeAny && !s.InputTypes().Accept(data.InputType) {
		return entities.TypeInfo{}, &sdkErrors.CompositionError{
			Shard:   s.Name(),
			Message: fmt.Sprintf("input type %s not accepted, expected %s", data.InputType, s.InputTypes()),
		}
	}
	if err := CheckRequired(s.Name(), s.RequiredVariables(), data.Shared); err != nil {
		return entities.TypeInfo{}, err
	}
	out, err := s.Compose(data)
	if err != nil {
		if _, ok := err.(*sdkErrors.CompositionError); ok {
			return entities.TypeInfo{}, err
		}
		return entities.TypeInfo{}, &sdkErrors.CompositionError{Shard: s.Name(), Err: err}
	}
	return out, nil
}

// ConditionalExposure implements the "adopt or declare" rule for a shard that
// writes a user-named variable: if an ancestor already exposes the name the
// shard adopts it, otherwise the shard declares it itself.
type ConditionalExposure struct {
	shard    string
	help     string
	typ      entities.TypeInfo
	declares bool
}

// NewConditionalExposure creates the helper for variables of type typ.
func NewConditionalExposure(shard string, typ entities.TypeInfo, help string) ConditionalExposure {
	return ConditionalExposure{shard: shard, typ: typ, help: help}
}

// Compose decides whether v is adopted or declared. An adopted variable must
// have a matching type and be mutable; protected names are refused.
func (c *ConditionalExposure) Compose(v *ParamVar, shared entities.ExposedTypes) error {
	c.declares = false
	if !v.IsVariable() {
		return nil
	}
	name := v.Name()
	info, ok := shared.Find(name)
	if !ok {
		c.declares = true
		return nil
	}
	if info.Protected {
		return &sdkErrors.CompositionError{Shard: c.shard, Variable: name, Message: "variable is reserved"}
	}
	if !c.typ.Accepts(info.Type) {
		return &sdkErrors.CompositionError{
			Shard:    c.shard,
			Variable: name,
			Message:  fmt.Sprintf("requires %s variable, found %s", article(c.typ), info.Type),
		}
	}
	if !info.Mutable {
		return &sdkErrors.CompositionError{Shard: c.shard, Variable: name, Message: "variable is not mutable"}
	}
	return nil
}

// Declares reports whether the last Compose chose to declare the variable.
func (c *ConditionalExposure) Declares() bool { return c.declares }

// Exposed returns the declared variable, if any.
func (c *ConditionalExposure) Exposed(v *ParamVar) entities.ExposedTypes {
	if !c.declares || !v.IsVariable() {
		return nil
	}
	return entities.ExposedTypes{{Name: v.Name(), Help: c.help, Type: c.typ, Mutable: true}}
}

// article renders t in lower case with its indefinite article.
func article(t entities.TypeInfo) string {
	name := strings.ToLower(t.String())
	if strings.ContainsRune("aeiou", rune(name[0])) {
		return "an " + name
	}
	return "a " + name
}
