package wasm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/wazero"
)

var runParameters = entities.Parameters{
	{Name: "Module", Help: "The path of the module to run.", Types: entities.StringVarOrNone},
	{Name: "Arguments", Help: "The arguments passed to the module.", Types: entities.StringSeqVarOrNone},
	{Name: "EntryPoint", Help: "The function to call. Defaults to _start.", Types: entities.StringOrNone},
	{Name: "MemoryLimitPages", Help: "The maximum memory of the module in 64 KiB pages.", Types: entities.Types{entities.IntType, entities.NoneType}},
}

// Loader reads module bytes by path.
type Loader func(path string) ([]byte, error)

// Option configures a Run shard.
type Option func(*Run)

// WithLoader replaces os.ReadFile as the module loader.
func WithLoader(l Loader) Option {
	return func(r *Run) {
		r.load = l
	}
}

// Run compiles its module on warmup and instantiates it on every activation.
// A non-zero exit status fails the activation.
type Run struct {
	shards.Base
	module     shards.ParamVar
	arguments  shards.ParamVar
	entryPoint entities.Var
	memLimit   entities.Var
	load       Loader
	compiled   *wazero.Module
	params     *shards.ParamSet
}

// NewRun creates a Wasm.Run shard.
func NewRun(opts ...Option) *Run {
	r := &Run{Base: shards.NewBase(), load: os.ReadFile}
	for _, opt := range opts {
		opt(r)
	}
	r.params = shards.NewParamSet("Wasm.Run", runParameters).
		Var(0, &r.module).
		Var(1, &r.arguments).
		Value(2, &r.entryPoint).
		Bind(3, r.limit, r.setLimit)
	return r
}

func (r *Run) limit() entities.Var { return r.memLimit }

func (r *Run) setLimit(v entities.Var) error {
	if v.IsNone() {
		r.memLimit = v
		return nil
	}
	n, _ := v.AsInt()
	if n <= 0 || n > 65536 {
		return fmt.Errorf("memory limit must be between 1 and 65536 pages, got %d", n)
	}
	r.memLimit = v
	return nil
}

func (r *Run) Name() string                    { return "Wasm.Run" }
func (r *Run) Help() string                    { return "Runs a WebAssembly command module." }
func (r *Run) InputTypes() entities.Types      { return entities.StringOrNone }
func (r *Run) OutputTypes() entities.Types     { return entities.StringTypes }
func (r *Run) Parameters() entities.Parameters { return runParameters }

func (r *Run) SetParam(index int, value entities.Var) error { return r.params.Set(index, value) }

func (r *Run) GetParam(index int) entities.Var { return r.params.Get(index) }

func (r *Run) RequiredVariables() entities.ExposedTypes {
	var req entities.ExposedTypes
	if r.module.IsVariable() {
		req = req.With(entities.ExposedInfo{Name: r.module.Name(), Type: entities.StringType})
	}
	if r.arguments.IsVariable() {
		req = req.With(entities.ExposedInfo{Name: r.arguments.Name(), Type: entities.StringSeqType})
	}
	return req
}

func (r *Run) Compose(shards.InstanceData) (entities.TypeInfo, error) {
	if r.module.IsNone() {
		return entities.TypeInfo{}, &sdkErrors.CompositionError{Shard: "Wasm.Run", Param: "Module", Message: "module path is required"}
	}
	return entities.StringType, nil
}

func (r *Run) Warmup(ctx *shards.Context) error {
	if err := r.module.Warmup(ctx); err != nil {
		return err
	}
	if err := r.arguments.Warmup(ctx); err != nil {
		return err
	}

	path, err := r.module.Get().AsString()
	if err != nil {
		return err
	}
	code, err := r.load(path)
	if err != nil {
		return fmt.Errorf("failed to load module: %w", err)
	}

	opts := []wazero.Option{wazero.WithLogger(ctx.Logger().Named("wasm"))}
	if !r.memLimit.IsNone() {
		pages, _ := r.memLimit.AsInt()
		opts = append(opts, wazero.WithMemoryLimitPages(uint32(pages)))
	}
	compiled, err := wazero.Compile(ctx.Context(), path, code, opts...)
	if err != nil {
		return err
	}
	r.compiled = compiled
	return nil
}

func (r *Run) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	stdin, err := input.AsString()
	if err != nil {
		return entities.None(), err
	}
	inv := wazero.Invocation{Stdin: []byte(stdin)}
	if inv.Args, err = stringsOf(r.arguments.Get()); err != nil {
		return entities.None(), fmt.Errorf("invalid arguments: %w", err)
	}
	inv.EntryPoint, _ = r.entryPoint.AsString()

	res, err := r.compiled.Run(ctx.Context(), inv)
	if err != nil {
		return entities.None(), err
	}
	if len(res.Stderr) > 0 {
		ctx.Logger().Debug("module wrote to stderr",
			zap.String("module", r.compiled.Name()),
			zap.ByteString("stderr", res.Stderr))
	}
	if res.Truncated {
		ctx.Logger().Warn("module output truncated", zap.String("module", r.compiled.Name()))
	}
	if res.ExitCode != 0 {
		msg := fmt.Sprintf("module exited with code %d", res.ExitCode)
		if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
			msg += ": " + stderr
		}
		return entities.None(), errors.New(msg)
	}
	return entities.String(string(res.Stdout)), nil
}

func (r *Run) Cleanup() error {
	var err error
	if r.compiled != nil {
		err = r.compiled.Close(context.Background())
		r.compiled = nil
	}
	r.arguments.Cleanup()
	r.module.Cleanup()
	return err
}

func stringsOf(v entities.Var) ([]string, error) {
	if v.IsNone() {
		return nil, nil
	}
	seq, err := v.AsSeq()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(seq))
	for i, item := range seq {
		if out[i], err = item.AsString(); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return out, nil
}
