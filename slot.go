package shards

import (
	"fmt"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Slot is an optional nested wire owned by a container shard. An empty slot
// is a no-op in every phase: it is never composed, warmed, activated or
// cleaned and it allocates no identity.
type Slot struct {
	wire *Wire
}

// NewSlot creates a slot holding w, which may be nil.
func NewSlot(w *Wire) Slot {
	return Slot{wire: w}
}

// SetParam accepts None or a wire object.
func (s *Slot) SetParam(v entities.Var) error {
	if v.IsNone() {
		s.wire = nil
		return nil
	}
	handle, err := v.AsObject(entities.WireObjectType)
	if err != nil {
		return err
	}
	w, ok := handle.(*Wire)
	if !ok {
		return fmt.Errorf("wire object holds %T", handle)
	}
	s.wire = w
	return nil
}

// GetParam returns the wire object, or None for an empty slot.
func (s *Slot) GetParam() entities.Var {
	return WireVar(s.wire)
}

// Wire returns the nested wire or nil.
func (s *Slot) Wire() *Wire { return s.wire }

// IsEmpty reports whether the slot holds no shard at all.
func (s *Slot) IsEmpty() bool {
	return s.wire == nil || s.wire.IsEmpty()
}

// Compose composes the nested wire. An empty slot passes the input type through.
func (s *Slot) Compose(data InstanceData) (ComposeResult, error) {
	if s.IsEmpty() {
		return ComposeResult{OutputType: data.InputType}, nil
	}
	return s.wire.Compose(data)
}

func (s *Slot) Warmup(ctx *Context) error {
	if s.IsEmpty() {
		return nil
	}
	return s.wire.Warmup(ctx)
}

// Activate runs the nested wire on input. An empty slot returns input.
func (s *Slot) Activate(ctx *Context, input entities.Var) (entities.Var, error) {
	if s.IsEmpty() {
		return input, nil
	}
	return s.wire.Activate(ctx, input)
}

func (s *Slot) Cleanup() error {
	if s.IsEmpty() {
		return nil
	}
	return s.wire.Cleanup()
}
