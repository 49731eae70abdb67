package builtins

import (
	"fmt"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

var setParameters = entities.Parameters{
	{Name: "Name", Help: "The name of the variable to write.", Types: entities.StringTypes},
}

// Set writes its input into a context variable and passes the input on.
// An ancestor exposing the name is adopted; otherwise Set declares it.
type Set struct {
	shards.Base
	variable shards.ParamVar
	exposure shards.ConditionalExposure
	params   *shards.ParamSet
}

// NewSet creates a Set shard writing name.
func NewSet(name string) *Set {
	s := &Set{Base: shards.NewBase()}
	s.variable.SetName(name)
	s.params = shards.NewParamSet("Set", setParameters).Bind(0, s.name, s.setName)
	return s
}

func (s *Set) name() entities.Var { return entities.String(s.variable.Name()) }

func (s *Set) setName(v entities.Var) error {
	name, _ := v.AsString()
	s.variable.SetName(name)
	return nil
}

func (s *Set) Name() string                    { return "Set" }
func (s *Set) Help() string                    { return "Stores the input into a context variable." }
func (s *Set) InputTypes() entities.Types      { return entities.AnyTypes }
func (s *Set) OutputTypes() entities.Types     { return entities.AnyTypes }
func (s *Set) Parameters() entities.Parameters { return setParameters }

func (s *Set) SetParam(index int, value entities.Var) error { return s.params.Set(index, value) }

func (s *Set) GetParam(index int) entities.Var { return s.params.Get(index) }

func (s *Set) ExposedVariables() entities.ExposedTypes {
	return s.exposure.Exposed(&s.variable)
}

func (s *Set) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if !s.variable.IsVariable() {
		return entities.TypeInfo{}, &sdkErrors.CompositionError{Shard: "Set", Param: "Name", Message: "variable name is required"}
	}
	s.exposure = shards.NewConditionalExposure("Set", data.InputType, "Set by the Set shard.")
	if err := s.exposure.Compose(&s.variable, data.Shared); err != nil {
		return entities.TypeInfo{}, err
	}
	return data.InputType, nil
}

func (s *Set) Warmup(ctx *shards.Context) error {
	return s.variable.Warmup(ctx)
}

func (s *Set) Activate(_ *shards.Context, input entities.Var) (entities.Var, error) {
	s.variable.Set(input.Clone())
	return input, nil
}

func (s *Set) Cleanup() error {
	s.variable.Cleanup()
	return nil
}

var getParameters = entities.Parameters{
	{Name: "Name", Help: "The name of the variable to read.", Types: entities.StringTypes},
	{Name: "Default", Help: "Output when the variable is missing or None.", Types: entities.AnyTypes},
}

// Get outputs the value of a context variable. Without a default the
// variable must be exposed by an ancestor or an earlier shard.
type Get struct {
	shards.Base
	variable shards.ParamVar
	fallback entities.Var
	outType  entities.TypeInfo
	params   *shards.ParamSet
}

// NewGet creates a Get shard reading name.
func NewGet(name string) *Get {
	g := &Get{Base: shards.NewBase()}
	g.variable.SetName(name)
	g.params = shards.NewParamSet("Get", getParameters).
		Bind(0, g.name, g.setName).
		Value(1, &g.fallback)
	return g
}

func (g *Get) name() entities.Var { return entities.String(g.variable.Name()) }

func (g *Get) setName(v entities.Var) error {
	name, _ := v.AsString()
	g.variable.SetName(name)
	return nil
}

func (g *Get) Name() string                    { return "Get" }
func (g *Get) Help() string                    { return "Outputs the value of a context variable." }
func (g *Get) InputTypes() entities.Types      { return entities.AnyTypes }
func (g *Get) OutputTypes() entities.Types     { return entities.AnyTypes }
func (g *Get) Parameters() entities.Parameters { return getParameters }

func (g *Get) SetParam(index int, value entities.Var) error { return g.params.Set(index, value) }

func (g *Get) GetParam(index int) entities.Var { return g.params.Get(index) }

func (g *Get) RequiredVariables() entities.ExposedTypes {
	if !g.variable.IsVariable() || !g.fallback.IsNone() {
		return nil
	}
	return entities.ExposedTypes{{Name: g.variable.Name(), Type: entities.AnyType}}
}

func (g *Get) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if !g.variable.IsVariable() {
		return entities.TypeInfo{}, &sdkErrors.CompositionError{Shard: "Get", Param: "Name", Message: "variable name is required"}
	}
	if info, ok := data.Shared.FindPublic(g.variable.Name()); ok {
		if !g.fallback.IsNone() && !info.Type.Accepts(g.fallback.TypeInfo()) {
			return entities.TypeInfo{}, &sdkErrors.CompositionError{
				Shard:    "Get",
				Variable: g.variable.Name(),
				Message:  fmt.Sprintf("default of type %s does not match variable type %s", g.fallback.TypeInfo(), info.Type),
			}
		}
		g.outType = info.Type
		return info.Type, nil
	}
	if _, hidden := data.Shared.Find(g.variable.Name()); hidden {
		return entities.TypeInfo{}, &sdkErrors.CompositionError{Shard: "Get", Variable: g.variable.Name(), Message: "variable is reserved"}
	}
	g.outType = g.fallback.TypeInfo()
	return g.outType, nil
}

func (g *Get) Warmup(ctx *shards.Context) error {
	if g.fallback.IsNone() {
		return g.variable.WarmupExisting(ctx)
	}
	return g.variable.Warmup(ctx)
}

func (g *Get) Activate(*shards.Context, entities.Var) (entities.Var, error) {
	v := g.variable.Get()
	if v.IsNone() && !g.fallback.IsNone() {
		return g.fallback, nil
	}
	return v, nil
}

func (g *Get) Cleanup() error {
	g.variable.Cleanup()
	return nil
}
