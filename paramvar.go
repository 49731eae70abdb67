package shards

import (
	"fmt"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// ParamVar is a parameter holding either a literal or a reference to a named
// context variable. Variable references are resolved by Warmup and released
// by Cleanup; Get and Set are only valid in between.
type ParamVar struct {
	value entities.Var
	local entities.Var
	ref   *entities.Var
}

// NewParamVar creates a ParamVar holding v, which may be a ContextVar.
func NewParamVar(v entities.Var) ParamVar {
	return ParamVar{value: v}
}

// SetParam replaces the stored value. It does not touch a resolved reference.
func (p *ParamVar) SetParam(v entities.Var) {
	p.value = v
}

// GetParam returns the stored literal or ContextVar.
func (p *ParamVar) GetParam() entities.Var {
	return p.value
}

// SetName binds the ParamVar to the named variable. An empty name clears it.
func (p *ParamVar) SetName(name string) {
	if name == "" {
		p.value = entities.None()
		return
	}
	p.value = entities.ContextVar(name)
}

// Name returns the bound variable name, or "" for literals.
func (p *ParamVar) Name() string {
	if !p.IsVariable() {
		return ""
	}
	return p.value.Name()
}

// IsVariable reports whether the stored value is a variable reference.
func (p *ParamVar) IsVariable() bool {
	return p.value.Kind() == entities.TypeContextVar
}

// IsNone reports whether no value at all is configured.
func (p *ParamVar) IsNone() bool {
	return p.value.IsNone()
}

// IsResolved reports whether Get and Set are currently valid.
func (p *ParamVar) IsResolved() bool {
	return p.ref != nil
}

// Warmup resolves the reference. A missing variable is declared as None.
func (p *ParamVar) Warmup(ctx *Context) error {
	if p.ref != nil {
		return nil
	}
	if !p.IsVariable() {
		p.local = p.value.Clone()
		p.ref = &p.local
		return nil
	}
	p.ref = ctx.Declare(p.value.Name(), entities.None())
	return nil
}

// WarmupExisting resolves the reference and fails if the variable has not been
// declared by an earlier shard or the host.
func (p *ParamVar) WarmupExisting(ctx *Context) error {
	if p.ref != nil {
		return nil
	}
	if !p.IsVariable() {
		return p.Warmup(ctx)
	}
	v, ok := ctx.Variable(p.value.Name())
	if !ok {
		return &sdkErrors.RuntimeError{Err: fmt.Errorf("variable %q not found", p.value.Name())}
	}
	p.ref = v
	return nil
}

// Get dereferences the resolved value.
func (p *ParamVar) Get() entities.Var {
	if p.ref == nil {
		sdkErrors.Violate(p.describe(), "get", "parameter variable is not resolved")
	}
	return *p.ref
}

// Set writes through the resolved reference. For literals the write lasts until Cleanup.
func (p *ParamVar) Set(v entities.Var) {
	if p.ref == nil {
		sdkErrors.Violate(p.describe(), "set", "parameter variable is not resolved")
	}
	*p.ref = v
}

// Cleanup releases the reference. It is safe to call repeatedly.
func (p *ParamVar) Cleanup() {
	p.ref = nil
	p.local = entities.None()
}

func (p *ParamVar) describe() string {
	if p.IsVariable() {
		return "$" + p.value.Name()
	}
	return "ParamVar"
}
