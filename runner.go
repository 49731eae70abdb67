package shards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// Runner drives a root wire through compose, warmup, repeated activation and
// cleanup.
type Runner struct {
	wire    *Wire
	ctx     *Context
	cfg     runnerConfig
	result  ComposeResult
	meta    *entities.RunMetadata
	started bool
}

type runnerConfig struct {
	logger    *zap.Logger
	input     entities.Var
	inputType entities.TypeInfo
	globals   []global
	onTick    func(tick uint64, out entities.Var)
}

type global struct {
	info  entities.ExposedInfo
	value entities.Var
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		input:     entities.None(),
		inputType: entities.NoneType,
	}
}

// WithLogger sets the logger of the run context.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(c *runnerConfig) {
		c.logger = l
	}
}

// WithInput sets the value fed to the wire on every tick.
func WithInput(v entities.Var) RunnerOption {
	return func(c *runnerConfig) {
		c.input = v
		c.inputType = v.TypeInfo()
	}
}

// WithGlobal exposes a mutable host variable to the wire.
func WithGlobal(name string, value entities.Var) RunnerOption {
	return func(c *runnerConfig) {
		c.globals = append(c.globals, global{
			info:  entities.ExposedInfo{Name: name, Type: value.TypeInfo(), Mutable: true, Global: true},
			value: value,
		})
	}
}

// WithTickHook is called after every successful tick.
func WithTickHook(fn func(tick uint64, out entities.Var)) RunnerOption {
	return func(c *runnerConfig) {
		c.onTick = fn
	}
}

// NewRunner creates a runner for w.
func NewRunner(w *Wire, opts ...RunnerOption) *Runner {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	return &Runner{wire: w, cfg: cfg}
}

// Context returns the run context, or nil before Start.
func (r *Runner) Context() *Context { return r.ctx }

// Result returns the compose result of the last Start.
func (r *Runner) Result() ComposeResult { return r.result }

// Metadata returns the metadata of the last run, or nil before Start.
func (r *Runner) Metadata() *entities.RunMetadata { return r.meta }

// Compose validates the wire without warming it.
func (r *Runner) Compose() (ComposeResult, error) {
	shared := make(entities.ExposedTypes, 0, len(r.cfg.globals))
	for _, g := range r.cfg.globals {
		shared = append(shared, g.info)
	}
	return r.wire.Compose(InstanceData{InputType: r.cfg.inputType, Shared: shared, Wire: r.wire.Name()})
}

// Start composes and warms the wire. On warmup failure the wire is cleaned
// before returning.
func (r *Runner) Start(parent context.Context) error {
	if r.started {
		return fmt.Errorf("runner for wire %s already started", r.wire.Name())
	}
	result, err := r.Compose()
	if err != nil {
		return err
	}
	r.result = result

	opts := []ContextOption{WithContextLogger(r.cfg.logger.With(zap.String("wire", r.wire.Name())))}
	for _, g := range r.cfg.globals {
		opts = append(opts, WithVariable(g.info.Name, g.value))
	}
	r.ctx = NewContext(parent, opts...)

	if err := r.wire.Warmup(r.ctx); err != nil {
		r.ctx.Logger().Error("warmup failed", zap.Error(err))
		return multierr.Append(err, r.wire.Cleanup())
	}
	r.started = true
	r.meta = entities.NewRunMetadata(r.wire.Name(), time.Now()).WithRunID(r.ctx.RunID().String())
	r.ctx.Logger().Debug("wire started", zap.Stringer("output", result.OutputType))
	return nil
}

// Tick activates the wire once. A returned error fails this tick only.
func (r *Runner) Tick() (entities.Var, error) {
	if !r.started {
		sdkErrors.Violate("wire "+r.wire.Name(), "activate", "runner not started")
	}
	r.ctx.beginTick()
	if r.ctx.Stopped() {
		return entities.None(), r.ctx.Err()
	}
	out, err := r.wire.Activate(r.ctx, r.cfg.input)
	if err != nil {
		r.ctx.Fail(err)
		if errors.Is(err, sdkErrors.ErrStopped) {
			r.meta.Ticks++
		} else {
			r.meta.Failures++
			r.ctx.Logger().Warn("tick failed", zap.Uint64("tick", r.ctx.Tick()), zap.Error(err))
		}
		return entities.None(), err
	}
	r.meta.Ticks++
	if r.cfg.onTick != nil {
		r.cfg.onTick(r.ctx.Tick(), out)
	}
	return out, nil
}

// Stop cleans the wire up. It is safe to call more than once.
func (r *Runner) Stop() error {
	if r.ctx != nil {
		r.ctx.Stop()
	}
	if r.started {
		r.meta.Finish(time.Now())
	}
	r.started = false
	return r.wire.Cleanup()
}

// Run starts the wire, ticks it until ticks ticks have run (forever when
// ticks <= 0), the wire requests a stop, the host context is done, or a tick
// fails. It always cleans up and returns the last tick output.
func (r *Runner) Run(parent context.Context, ticks int) (out entities.Var, err error) {
	if err := r.Start(parent); err != nil {
		return entities.None(), err
	}
	defer func() {
		err = multierr.Append(err, r.Stop())
	}()

	for n := 0; ticks <= 0 || n < ticks; n++ {
		if r.ctx.Stopped() {
			break
		}
		out, err = r.Tick()
		if err != nil {
			if errors.Is(err, sdkErrors.ErrStopped) || errors.Is(err, context.Canceled) {
				return out, nil
			}
			return out, err
		}
	}
	return out, nil
}
