package shards

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// Wire is an ordered sequence of shards executed as one composite unit.
//
// Compose threads each shard's output type into the next shard's input and
// accumulates exposed variables. Warmup is fail-fast, Activate stops at the
// first error, and Cleanup always reaches every shard in reverse order.
// An empty wire is a no-op in every phase.
type Wire struct {
	name     string
	shards   []Shard
	life     Lifecycle
	composed ComposeResult
}

// NewWire creates a wire holding the given shards in order.
func NewWire(name string, shards ...Shard) *Wire {
	return &Wire{
		name:   name,
		shards: append([]Shard(nil), shards...),
		life:   NewLifecycle("wire " + name),
	}
}

// Name returns the wire name.
func (w *Wire) Name() string { return w.name }

// Add appends a shard. It invalidates a previous compose.
func (w *Wire) Add(s Shard) {
	w.life.Reset()
	w.shards = append(w.shards, s)
}

// Shards returns a copy of the shard list.
func (w *Wire) Shards() []Shard {
	return append([]Shard(nil), w.shards...)
}

// IsEmpty reports whether the wire holds no shards.
func (w *Wire) IsEmpty() bool { return len(w.shards) == 0 }

// State returns the lifecycle state.
func (w *Wire) State() State { return w.life.State() }

// Result returns the last compose result.
func (w *Wire) Result() (ComposeResult, bool) {
	if w.life.State() == StateConstructed {
		return ComposeResult{}, false
	}
	return w.composed, true
}

// Compose validates the wire against data. It touches no runtime resource.
func (w *Wire) Compose(data InstanceData) (ComposeResult, error) {
	if w.IsEmpty() {
		return ComposeResult{OutputType: data.InputType}, nil
	}

	logger := Logger().With(zap.String("wire", w.name))
	shared := data.Shared.Clone()
	current := data.InputType
	var result ComposeResult

	for _, s := range w.shards {
		out, err := ComposeShard(s, InstanceData{InputType: current, Shared: shared, Wire: w.name})
		if err != nil {
			logger.Debug("compose failed", zap.String("shard", s.Name()), zap.Error(err))
			return ComposeResult{}, err
		}

		for _, req := range s.RequiredVariables() {
			if _, own := result.Exposed.Find(req.Name); own {
				continue
			}
			if _, seen := result.Required.Find(req.Name); seen {
				continue
			}
			result.Required = append(result.Required, req)
		}

		for _, exp := range s.ExposedVariables() {
			if _, dup := shared.Find(exp.Name); dup {
				return ComposeResult{}, &sdkErrors.CompositionError{
					Shard:    s.Name(),
					Variable: exp.Name,
					Message:  "variable already exposed",
				}
			}
			shared = append(shared, exp)
			result.Exposed = append(result.Exposed, exp)
		}

		current = out
	}

	result.OutputType = current
	w.composed = result
	w.life.Composed()
	logger.Debug("wire composed",
		zap.Int("shards", len(w.shards)),
		zap.Stringer("output", result.OutputType),
		zap.Strings("exposed", result.Exposed.Names()))
	return result, nil
}

// Warmup warms every shard in order and stops at the first failure. The
// caller must call Cleanup whatever the outcome.
func (w *Wire) Warmup(ctx *Context) error {
	if w.IsEmpty() {
		return nil
	}
	w.life.BeginWarmup()
	for _, s := range w.shards {
		if err := s.Warmup(ctx); err != nil {
			return w.runtimeError(s, err)
		}
	}
	w.life.Warm()
	return nil
}

// Activate runs one tick through the wire. The first error aborts the
// remaining shards and is returned as a RuntimeError.
func (w *Wire) Activate(ctx *Context, input entities.Var) (entities.Var, error) {
	if w.IsEmpty() {
		return input, nil
	}
	w.life.CheckActivate()
	current := input
	for _, s := range w.shards {
		if ctx.ShouldStop() {
			return entities.None(), ctx.Err()
		}
		out, err := s.Activate(ctx, current)
		if err != nil {
			return entities.None(), w.runtimeError(s, err)
		}
		current = out
	}
	return current, nil
}

// Cleanup cleans every shard in reverse order. Errors are collected, not
// short-circuited. Calling Cleanup again does nothing.
func (w *Wire) Cleanup() error {
	if w.IsEmpty() || !w.life.BeginCleanup() {
		return nil
	}
	var errs error
	for i := len(w.shards) - 1; i >= 0; i-- {
		s := w.shards[i]
		if err := s.Cleanup(); err != nil {
			Logger().Warn("shard cleanup failed",
				zap.String("wire", w.name),
				zap.String("shard", s.Name()),
				zap.Error(err))
			errs = multierr.Append(errs, w.runtimeError(s, err))
		}
	}
	return errs
}

func (w *Wire) runtimeError(s Shard, err error) error {
	wrapped := sdkErrors.NewRuntimeError(s.Name(), err)
	if re, ok := wrapped.(*sdkErrors.RuntimeError); ok {
		if re.Shard == "" {
			re.Shard = s.Name()
		}
		if re.Wire == "" {
			re.Wire = w.name
		}
	}
	return wrapped
}

// WireVar wraps w as a parameter value.
func WireVar(w *Wire) entities.Var {
	if w == nil {
		return entities.None()
	}
	return entities.NewObject(entities.WireObjectType, w)
}
