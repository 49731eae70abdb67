package shards

import (
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Shard is the unit of computation. Shards are composed into wires and share a
// single lifecycle protocol; see the package documentation.
//
// Parameter tables, input and output type lists are process-wide and must be
// treated as read-only by callers.
type Shard interface {
	Name() string
	Help() string
	InputTypes() entities.Types
	OutputTypes() entities.Types
	Parameters() entities.Parameters

	// SetParam stores a parameter value. Out-of-range indices and values of a
	// rejected type fail with a ConfigurationError.
	SetParam(index int, value entities.Var) error
	// GetParam returns the stored value, or None for unknown indices.
	GetParam(index int) entities.Var

	// RequiredVariables lists the variables that must be visible to the shard.
	RequiredVariables() entities.ExposedTypes
	// ExposedVariables lists the variables the shard publishes. It is
	// consulted after Compose so that conditional exposures are settled.
	ExposedVariables() entities.ExposedTypes

	Compose(data InstanceData) (entities.TypeInfo, error)
	Warmup(ctx *Context) error
	Activate(ctx *Context, input entities.Var) (entities.Var, error)
	Cleanup() error
}

// Identified is implemented by shards carrying an arena-assigned id.
type Identified interface {
	ID() entities.InstanceID
}

// Base supplies the identity and no-op defaults shared by most shards.
// Embed it by value and initialise it with NewBase.
type Base struct {
	id entities.InstanceID
}

// NewBase issues a fresh instance id from the process arena.
func NewBase() Base {
	return Base{id: NextInstanceID()}
}

// ID returns the instance id.
func (b *Base) ID() entities.InstanceID { return b.id }

// Key derives the identity key of the given slot of this instance.
func (b *Base) Key(slot int) entities.IdentityKey {
	return entities.NewIdentityKey(b.id, slot)
}

func (b *Base) Help() string { return "" }

func (b *Base) RequiredVariables() entities.ExposedTypes { return nil }

func (b *Base) ExposedVariables() entities.ExposedTypes { return nil }

func (b *Base) Warmup(*Context) error { return nil }

func (b *Base) Cleanup() error { return nil }

// PassthroughCompose is the compose result of shards whose output type is the
// first entry of their output list, or their input type if they output Any.
func PassthroughCompose(s Shard, data InstanceData) entities.TypeInfo {
	outs := s.OutputTypes()
	if len(outs) == 0 || outs[0].Basic == entities.TypeAny {
		return data.InputType
	}
	return outs[0]
}
