package shards_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/shardstest"
)

func TestRunner_RunTicks(t *testing.T) {
	counter := shardstest.NewStub("counter", nil)
	counter.ActivateFn = func(ctx *shards.Context, _ entities.Var) (entities.Var, error) {
		return entities.Int(int64(ctx.Tick())), nil
	}
	var ticks []uint64
	r := shards.NewRunner(shards.NewWire("main", counter),
		shards.WithTickHook(func(tick uint64, _ entities.Var) { ticks = append(ticks, tick) }))

	out, err := r.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, entities.Int(3), out)
	assert.Equal(t, []uint64{1, 2, 3}, ticks)
	assert.Equal(t, 1, counter.Calls("warmup"))
	assert.Equal(t, 1, counter.Calls("cleanup"))
}

func TestRunner_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	s := shardstest.NewStub("s", nil)
	s.ActivateFn = func(ctx *shards.Context, in entities.Var) (entities.Var, error) {
		if ctx.Tick() == 2 {
			return entities.None(), boom
		}
		return in, nil
	}
	core, logs := observer.New(zapcore.WarnLevel)
	r := shards.NewRunner(shards.NewWire("main", s), shards.WithLogger(zap.New(core)))

	_, err := r.Run(context.Background(), 10)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, s.Calls("activate"))
	assert.Equal(t, 1, s.Calls("cleanup"))
	assert.Equal(t, 1, logs.FilterMessage("tick failed").Len())
}

func TestRunner_TickFailureIsPerTick(t *testing.T) {
	fail := true
	s := shardstest.NewStub("s", nil)
	s.ActivateFn = func(*shards.Context, entities.Var) (entities.Var, error) {
		if fail {
			return entities.None(), errors.New("transient")
		}
		return entities.Bool(true), nil
	}
	r := shards.NewRunner(shards.NewWire("main", s))
	require.NoError(t, r.Start(context.Background()))
	defer func() { _ = r.Stop() }()

	_, err := r.Tick()
	require.Error(t, err)
	require.Error(t, r.Context().Failure())

	fail = false
	out, err := r.Tick()
	require.NoError(t, err)
	assert.Equal(t, entities.Bool(true), out)
	assert.NoError(t, r.Context().Failure())
}

func TestRunner_WarmupFailureCleansUp(t *testing.T) {
	a := shardstest.NewStub("a", nil)
	b := shardstest.NewStub("b", nil)
	b.WarmupErr = errors.New("no backend")
	r := shards.NewRunner(shards.NewWire("main", a, b))

	_, err := r.Run(context.Background(), 1)
	shardstest.RequireRuntimeError(t, err, "Stub.b")
	assert.Equal(t, 1, a.Calls("cleanup"))
	assert.Equal(t, 1, b.Calls("cleanup"))
	assert.Zero(t, a.Calls("activate"))
}

func TestRunner_ComposeFailureTouchesNothing(t *testing.T) {
	s := shardstest.NewStub("s", nil)
	s.Required = entities.ExposedTypes{{Name: "missing", Type: entities.AnyType}}
	r := shards.NewRunner(shards.NewWire("main", s))

	_, err := r.Run(context.Background(), 1)
	shardstest.RequireCompositionError(t, err, "Stub.s", "missing")
	assert.Zero(t, s.Calls("warmup"))
	assert.Zero(t, s.Calls("cleanup"))
}

func TestRunner_Globals(t *testing.T) {
	s := shardstest.NewStub("s", nil)
	s.Required = entities.ExposedTypes{{Name: "scale", Type: entities.FloatType}}
	s.ActivateFn = func(ctx *shards.Context, _ entities.Var) (entities.Var, error) {
		v, ok := ctx.Variable("scale")
		require.True(t, ok)
		return *v, nil
	}
	r := shards.NewRunner(shards.NewWire("main", s), shards.WithGlobal("scale", entities.Float(2.5)))

	out, err := r.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.Float(2.5), out)
}

func TestRunner_InputAndStop(t *testing.T) {
	s := shardstest.NewStub("s", nil)
	s.ActivateFn = func(ctx *shards.Context, in entities.Var) (entities.Var, error) {
		if ctx.Tick() == 4 {
			ctx.Stop()
		}
		return in, nil
	}
	r := shards.NewRunner(shards.NewWire("main", s), shards.WithInput(entities.String("in")))

	out, err := r.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, entities.String("in"), out)
	assert.Equal(t, 4, s.Calls("activate"))
}

func TestRunner_Cancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := shardstest.NewStub("s", nil)
	s.ActivateFn = func(_ *shards.Context, in entities.Var) (entities.Var, error) {
		cancel()
		return in, nil
	}
	r := shards.NewRunner(shards.NewWire("main", s))

	_, err := r.Run(parent, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Calls("activate"))
	assert.Equal(t, 1, s.Calls("cleanup"))
}

func TestRunner_TickBeforeStart(t *testing.T) {
	r := shards.NewRunner(shards.NewWire("main", shardstest.NewStub("s", nil)))
	shardstest.AssertViolation(t, "activate", func() { _, _ = r.Tick() })
}

func TestRunner_Metadata(t *testing.T) {
	boom := errors.New("boom")
	s := shardstest.NewStub("s", nil)
	s.ActivateFn = func(ctx *shards.Context, in entities.Var) (entities.Var, error) {
		if ctx.Tick() == 2 {
			return entities.None(), boom
		}
		return in, nil
	}
	r := shards.NewRunner(shards.NewWire("meta", s))
	assert.Nil(t, r.Metadata())

	require.NoError(t, r.Start(context.Background()))
	_, err := r.Tick()
	require.NoError(t, err)
	_, err = r.Tick()
	require.ErrorIs(t, err, boom)
	_, err = r.Tick()
	require.NoError(t, err)

	meta := r.Metadata()
	require.NotNil(t, meta)
	assert.True(t, meta.EndTime.IsZero())
	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())

	assert.Equal(t, "meta", meta.Wire)
	assert.Equal(t, r.Context().RunID().String(), meta.RunID)
	assert.Equal(t, uint64(2), meta.Ticks)
	assert.Equal(t, uint64(1), meta.Failures)
	assert.False(t, meta.EndTime.IsZero())
	assert.Equal(t, meta.EndTime.Sub(meta.StartTime), meta.Duration)
}

func TestRunner_MetadataStopIsNotAFailure(t *testing.T) {
	stop := shardstest.NewStub("stop", nil)
	stop.ActivateFn = func(ctx *shards.Context, in entities.Var) (entities.Var, error) {
		ctx.Stop()
		return in, nil
	}
	after := shardstest.NewStub("after", nil)
	r := shards.NewRunner(shards.NewWire("stopping", stop, after))

	require.NoError(t, r.Start(context.Background()))
	_, err := r.Tick()
	require.ErrorIs(t, err, sdkErrors.ErrStopped)
	require.NoError(t, r.Stop())

	meta := r.Metadata()
	assert.Equal(t, uint64(1), meta.Ticks)
	assert.Zero(t, meta.Failures)
}
