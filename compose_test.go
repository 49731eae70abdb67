package shards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/shardstest"
)

// binder adopts or declares an int variable named by its parameter.
type binder struct {
	*shardstest.Stub
	variable shards.ParamVar
	exposure shards.ConditionalExposure
}

func newBinder(name string) *binder {
	b := &binder{
		Stub:     shardstest.NewStub("binder", nil),
		exposure: shards.NewConditionalExposure("Test.Binder", entities.IntType, "bound value"),
	}
	b.variable.SetName(name)
	return b
}

func (b *binder) Name() string { return "Test.Binder" }

func (b *binder) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if err := b.exposure.Compose(&b.variable, data.Shared); err != nil {
		return entities.TypeInfo{}, err
	}
	return b.Stub.Compose(data)
}

func (b *binder) ExposedVariables() entities.ExposedTypes {
	return b.exposure.Exposed(&b.variable)
}

func requires(name string, typ entities.TypeInfo) entities.ExposedTypes {
	return entities.ExposedTypes{{Name: name, Type: typ}}
}

func TestCompose_RequiredVariable(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		s := shardstest.NewStub("reader", nil)
		s.Required = requires("X", entities.IntType)

		_, err := shards.NewWire("w", s).Compose(shards.InstanceData{InputType: entities.NoneType})
		ce := shardstest.RequireCompositionError(t, err, "Stub.reader", "X")
		assert.Contains(t, ce.Error(), "not found")
		assert.Zero(t, s.Calls("compose"), "requirements are checked before the shard composes")
	})

	t.Run("exposed by ancestor", func(t *testing.T) {
		s := shardstest.NewStub("reader", nil)
		s.Required = requires("X", entities.IntType)
		data := shards.InstanceData{
			InputType: entities.NoneType,
			Shared:    entities.ExposedTypes{{Name: "X", Type: entities.IntType}},
		}

		res, err := shards.NewWire("w", s).Compose(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"X"}, res.Required.Names())
	})

	t.Run("exposed by earlier sibling", func(t *testing.T) {
		writer := shardstest.NewStub("writer", nil)
		writer.Exposed = entities.ExposedTypes{{Name: "X", Type: entities.IntType, Mutable: true}}
		reader := shardstest.NewStub("reader", nil)
		reader.Required = requires("X", entities.IntType)

		res, err := shards.NewWire("w", writer, reader).Compose(shards.InstanceData{InputType: entities.NoneType})
		require.NoError(t, err)
		assert.Empty(t, res.Required, "satisfied inside the wire")
		assert.Equal(t, []string{"X"}, res.Exposed.Names())
	})

	t.Run("wrong type", func(t *testing.T) {
		s := shardstest.NewStub("reader", nil)
		s.Required = requires("X", entities.IntType)
		data := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "X", Type: entities.StringType}}}

		_, err := shards.NewWire("w", s).Compose(data)
		ce := shardstest.RequireCompositionError(t, err, "Stub.reader", "X")
		assert.Contains(t, ce.Error(), "expected Int")
	})

	t.Run("protected entries satisfy requirements", func(t *testing.T) {
		s := shardstest.NewStub("child", nil)
		s.Required = requires("GUI.UI.Parent", entities.AnyType)
		data := shards.InstanceData{}.WithShared(entities.ExposedInfo{Name: "GUI.UI.Parent", Type: entities.IntType, Protected: true})

		_, err := shards.NewWire("w", s).Compose(data)
		require.NoError(t, err)
	})
}

func TestCompose_Deterministic(t *testing.T) {
	first := shardstest.NewStub("a", nil)
	first.Out = entities.IntTypes
	first.Exposed = entities.ExposedTypes{{Name: "a", Type: entities.IntType}}
	second := shardstest.NewStub("b", nil)
	second.Required = requires("g", entities.StringType)
	w := shards.NewWire("w", first, second, newBinder("n"))

	data := shards.InstanceData{
		InputType: entities.NoneType,
		Shared:    entities.ExposedTypes{{Name: "g", Type: entities.StringType}},
	}
	r1, err := w.Compose(data)
	require.NoError(t, err)
	r2, err := w.Compose(data)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, entities.IntType, r1.OutputType)
	assert.Equal(t, []string{"a", "n"}, r1.Exposed.Names())
	assert.Equal(t, []string{"g"}, r1.Required.Names())
	assert.Len(t, data.Shared, 1, "compose never mutates the caller's shared list")
}

func TestCompose_ConditionalExposure(t *testing.T) {
	t.Run("declares when unbound", func(t *testing.T) {
		b := newBinder("value")
		res, err := shards.NewWire("w", b).Compose(shards.InstanceData{})
		require.NoError(t, err)
		assert.True(t, b.exposure.Declares())
		require.Len(t, b.ExposedVariables(), 1)
		assert.Equal(t, []string{"value"}, res.Exposed.Names())
	})

	t.Run("adopts ancestor binding", func(t *testing.T) {
		b := newBinder("value")
		data := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "value", Type: entities.IntType, Mutable: true}}}

		res, err := shards.NewWire("w", b).Compose(data)
		require.NoError(t, err)
		assert.False(t, b.exposure.Declares())
		assert.Empty(t, b.ExposedVariables())
		assert.Empty(t, res.Exposed)
	})

	t.Run("rejects wrong type", func(t *testing.T) {
		b := newBinder("value")
		data := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "value", Type: entities.StringType, Mutable: true}}}

		_, err := shards.NewWire("w", b).Compose(data)
		ce := shardstest.RequireCompositionError(t, err, "Test.Binder", "value")
		assert.Contains(t, ce.Error(), "requires an int variable")
	})

	t.Run("rejects immutable", func(t *testing.T) {
		b := newBinder("value")
		data := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "value", Type: entities.IntType}}}

		_, err := shards.NewWire("w", b).Compose(data)
		shardstest.RequireCompositionError(t, err, "Test.Binder", "value")
	})

	t.Run("rejects protected", func(t *testing.T) {
		b := newBinder("GUI.Context")
		data := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "GUI.Context", Type: entities.IntType, Mutable: true, Protected: true}}}

		_, err := shards.NewWire("w", b).Compose(data)
		shardstest.RequireCompositionError(t, err, "Test.Binder", "GUI.Context")
	})

	t.Run("recompose resets the decision", func(t *testing.T) {
		b := newBinder("value")
		w := shards.NewWire("w", b)
		_, err := w.Compose(shards.InstanceData{})
		require.NoError(t, err)
		require.True(t, b.exposure.Declares())

		_, err = w.Compose(shards.InstanceData{Shared: entities.ExposedTypes{{Name: "value", Type: entities.IntType, Mutable: true}}})
		require.NoError(t, err)
		assert.False(t, b.exposure.Declares())
	})
}

func TestCompose_DuplicateExposure(t *testing.T) {
	a := shardstest.NewStub("a", nil)
	a.Exposed = entities.ExposedTypes{{Name: "x", Type: entities.IntType}}
	b := shardstest.NewStub("b", nil)
	b.Exposed = entities.ExposedTypes{{Name: "x", Type: entities.IntType}}

	_, err := shards.NewWire("w", a, b).Compose(shards.InstanceData{})
	shardstest.RequireCompositionError(t, err, "Stub.b", "x")
}

func TestCompose_InputTypeMismatch(t *testing.T) {
	producer := shardstest.NewStub("producer", nil)
	producer.Out = entities.StringTypes
	consumer := shardstest.NewStub("consumer", nil)
	consumer.In = entities.IntTypes

	_, err := shards.NewWire("w", producer, consumer).Compose(shards.InstanceData{InputType: entities.NoneType})
	ce := shardstest.RequireCompositionError(t, err, "Stub.consumer", "")
	assert.Contains(t, ce.Error(), "input type String not accepted")
}

func TestInstanceData_WithShared(t *testing.T) {
	base := shards.InstanceData{Shared: entities.ExposedTypes{{Name: "a"}}}
	extended := base.WithShared(entities.ExposedInfo{Name: "b", Protected: true})

	assert.Equal(t, []string{"a"}, base.Shared.Names())
	assert.Equal(t, []string{"a", "b"}, extended.Shared.Names())
	_, ok := extended.Shared.FindPublic("b")
	assert.False(t, ok)
}
