package shards

import (
	"fmt"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

type paramBinding struct {
	get func() entities.Var
	set func(entities.Var) error
}

// ParamSet implements index-based SetParam and GetParam over a parameter
// table. Shards bind each index to a field once, at construction.
//
// Example usage:
//
//	c.params = shards.NewParamSet("UI.Combo", comboParameters).
//	    Var(0, &c.label).
//	    Var(1, &c.variable)
type ParamSet struct {
	shard    string
	infos    entities.Parameters
	bindings []paramBinding
}

// NewParamSet creates an unbound set for the given table.
func NewParamSet(shard string, infos entities.Parameters) *ParamSet {
	return &ParamSet{
		shard:    shard,
		infos:    infos,
		bindings: make([]paramBinding, len(infos)),
	}
}

// Var binds index to a ParamVar field.
func (p *ParamSet) Var(index int, v *ParamVar) *ParamSet {
	return p.Bind(index, v.GetParam, func(val entities.Var) error {
		v.SetParam(val)
		return nil
	})
}

// Slot binds index to a nested wire slot.
func (p *ParamSet) Slot(index int, s *Slot) *ParamSet {
	return p.Bind(index, s.GetParam, s.SetParam)
}

// Value binds index to a plain value field.
func (p *ParamSet) Value(index int, v *entities.Var) *ParamSet {
	return p.Bind(index, func() entities.Var { return *v }, func(val entities.Var) error {
		*v = val
		return nil
	})
}

// Bind binds index to custom accessors. set may reject a value that passed the
// type check by returning an error.
func (p *ParamSet) Bind(index int, get func() entities.Var, set func(entities.Var) error) *ParamSet {
	if index < 0 || index >= len(p.bindings) {
		panic(fmt.Sprintf("%s: binding out of range parameter %d", p.shard, index))
	}
	p.bindings[index] = paramBinding{get: get, set: set}
	return p
}

// Infos returns the parameter table.
func (p *ParamSet) Infos() entities.Parameters { return p.infos }

// Set validates and stores value at index.
func (p *ParamSet) Set(index int, value entities.Var) error {
	if index < 0 || index >= len(p.infos) {
		return &sdkErrors.ConfigurationError{Shard: p.shard, Index: index, Err: sdkErrors.ErrParamIndex}
	}
	info := p.infos[index]
	if !info.Types.MatchValue(value) {
		return &sdkErrors.ConfigurationError{
			Shard: p.shard,
			Index: index,
			Param: info.Name,
			Err:   fmt.Errorf("%w: got %s, expected %s", sdkErrors.ErrParamType, value.TypeInfo(), info.Types),
		}
	}
	b := p.bindings[index]
	if b.set == nil {
		return &sdkErrors.ConfigurationError{Shard: p.shard, Index: index, Param: info.Name, Err: sdkErrors.ErrParamIndex}
	}
	if err := b.set(value); err != nil {
		return &sdkErrors.ConfigurationError{Shard: p.shard, Index: index, Param: info.Name, Err: err}
	}
	return nil
}

// Get returns the value at index, or None when out of range or unbound.
func (p *ParamSet) Get(index int) entities.Var {
	if index < 0 || index >= len(p.bindings) || p.bindings[index].get == nil {
		return entities.None()
	}
	return p.bindings[index].get()
}
