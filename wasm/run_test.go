package wasm_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/builtins"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/internal/testutil"
	"github.com/reglet-dev/shards-sdk/go/registry"
	"github.com/reglet-dev/shards-sdk/go/shardstest"
	"github.com/reglet-dev/shards-sdk/go/wasm"
)

// writeModule stores code in a temporary file and returns its path.
func writeModule(t *testing.T, code []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.wasm")
	require.NoError(t, os.WriteFile(path, code, 0o600))
	return path
}

func newRun(t *testing.T, code []byte) *wasm.Run {
	t.Helper()
	r := wasm.NewRun()
	require.NoError(t, r.SetParam(0, entities.String(writeModule(t, code))))
	return r
}

func TestRun_StdinToStdout(t *testing.T) {
	run := newRun(t, testutil.Echo())
	w := shards.NewWire("echo", builtins.NewConst(entities.String("ping")), run)

	result, err := w.Compose(shards.InstanceData{InputType: entities.NoneType})
	require.NoError(t, err)
	assert.Equal(t, entities.StringType, result.OutputType)

	out, err := shards.NewRunner(w).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, entities.String("ping"), out)
}

func TestRun_NoneInputIsEmptyStdin(t *testing.T) {
	out, err := shards.NewRunner(shards.NewWire("empty", newRun(t, testutil.Echo()))).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.String(""), out)
}

func TestRun_NonZeroExit(t *testing.T) {
	w := shards.NewWire("exit", newRun(t, testutil.Exit(2)))

	_, err := shards.NewRunner(w).Run(context.Background(), 1)
	re := shardstest.RequireRuntimeError(t, err, "Wasm.Run")
	assert.Equal(t, "exit", re.Wire)
	assert.Contains(t, re.Error(), "module exited with code 2")
}

func TestRun_Trap(t *testing.T) {
	run := newRun(t, testutil.Entries())
	require.NoError(t, run.SetParam(2, entities.String("fail")))

	_, err := shards.NewRunner(shards.NewWire("trap", run)).Run(context.Background(), 1)
	re := shardstest.RequireRuntimeError(t, err, "Wasm.Run")
	assert.Contains(t, re.Error(), "unreachable")
}

func TestRun_ModuleRequired(t *testing.T) {
	_, err := shards.NewWire("missing", wasm.NewRun()).Compose(shards.InstanceData{InputType: entities.NoneType})

	var ce *sdkErrors.CompositionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Module", ce.Param)
}

func TestRun_ModuleFromVariable(t *testing.T) {
	bound := func() *wasm.Run {
		run := wasm.NewRun()
		require.NoError(t, run.SetParam(0, entities.ContextVar("module")))
		return run
	}

	_, err := shards.NewRunner(shards.NewWire("var", bound())).Compose()
	shardstest.RequireCompositionError(t, err, "Wasm.Run", "module")

	path := writeModule(t, testutil.Empty())
	out, err := shards.NewRunner(shards.NewWire("var", bound()), shards.WithGlobal("module", entities.String(path))).
		Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.String(""), out)
}

func TestRun_LoadAndCompileErrors(t *testing.T) {
	missing := wasm.NewRun(wasm.WithLoader(func(string) ([]byte, error) { return nil, os.ErrNotExist }))
	require.NoError(t, missing.SetParam(0, entities.String("nowhere.wasm")))
	_, err := shards.NewRunner(shards.NewWire("load", missing)).Run(context.Background(), 1)
	re := shardstest.RequireRuntimeError(t, err, "Wasm.Run")
	assert.True(t, errors.Is(re, os.ErrNotExist))

	big := newRun(t, testutil.Memory(4))
	require.NoError(t, big.SetParam(3, entities.Int(2)))
	_, err = shards.NewRunner(shards.NewWire("limit", big)).Run(context.Background(), 1)
	re = shardstest.RequireRuntimeError(t, err, "Wasm.Run")
	assert.Contains(t, re.Error(), "limit")
}

func TestRun_InvalidMemoryLimit(t *testing.T) {
	run := wasm.NewRun()
	err := run.SetParam(3, entities.Int(0))
	shardstest.RequireConfigurationError(t, err, nil)

	require.NoError(t, run.SetParam(3, entities.Int(16)))
	assert.Equal(t, entities.Int(16), run.GetParam(3))
}

func TestRun_Arguments(t *testing.T) {
	run := newRun(t, testutil.Empty())
	require.NoError(t, run.SetParam(1, entities.Strings("-v", "input.txt")))
	assert.Equal(t, entities.Strings("-v", "input.txt"), run.GetParam(1))

	_, err := shards.NewRunner(shards.NewWire("args", run)).Run(context.Background(), 1)
	require.NoError(t, err)
}

func TestBundle(t *testing.T) {
	reg, err := registry.New(registry.WithBundle(wasm.Bundle()))
	require.NoError(t, err)

	s, err := reg.Create("Wasm.Run")
	require.NoError(t, err)
	assert.Equal(t, "Wasm.Run", s.Name())
	assert.Equal(t, 4, len(s.Parameters()))
}
