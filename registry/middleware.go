package registry

import (
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// Op names the lifecycle operation routed through middleware.
type Op string

const (
	OpWarmup   Op = "warmup"
	OpActivate Op = "activate"
	OpCleanup  Op = "cleanup"
)

// Call is one lifecycle invocation. Ctx is nil for cleanup.
type Call struct {
	Ctx   *shards.Context
	Input entities.Var
	Shard string
	Op    Op
}

// Handler executes a Call.
type Handler func(call Call) (entities.Var, error)

// Middleware wraps a Handler to add cross-cutting behavior to every created
// shard. Middleware executes in FIFO order (first registered wraps first,
// onion model).
//
// Example usage:
//
//	counting := func(next registry.Handler) registry.Handler {
//	    return func(call registry.Call) (entities.Var, error) {
//	        calls[call.Op]++
//	        return next(call)
//	    }
//	}
type Middleware func(next Handler) Handler

// PanicRecoveryMiddleware returns a middleware that converts panics raised by
// a shard into a RuntimeError for the current tick. Invariant violations are
// re-raised.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(call Call) (out entities.Var, err error) {
			defer func() {
				if r := recover(); r != nil {
					if iv, ok := r.(*sdkErrors.InvariantViolation); ok {
						panic(iv)
					}
					out = entities.None()
					detail := entities.NewErrorDetail("panic", fmt.Sprintf("panic during %s: %v", call.Op, r)).
						WithCode(call.Shard).
						WithStack(debug.Stack())
					err = &sdkErrors.RuntimeError{Shard: call.Shard, Err: detail}
				}
			}()
			return next(call)
		}
	}
}

// LoggingMiddleware returns a middleware that logs warmup and cleanup of every
// shard and each failed activation.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(call Call) (entities.Var, error) {
			start := time.Now()
			out, err := next(call)
			fields := []zap.Field{zap.String("shard", call.Shard), zap.String("op", string(call.Op))}
			switch {
			case err != nil:
				logger.Warn("shard call failed", append(fields, zap.Duration("elapsed", time.Since(start)), zap.Error(err))...)
			case call.Op != OpActivate:
				logger.Debug("shard call completed", append(fields, zap.Duration("elapsed", time.Since(start)))...)
			}
			return out, err
		}
	}
}

// wrapped routes the lifecycle of a shard through a middleware chain.
type wrapped struct {
	shards.Shard
	handler Handler
}

func wrap(s shards.Shard, mw []Middleware) shards.Shard {
	if len(mw) == 0 {
		return s
	}
	var h Handler = func(call Call) (entities.Var, error) {
		switch call.Op {
		case OpWarmup:
			return entities.None(), s.Warmup(call.Ctx)
		case OpCleanup:
			return entities.None(), s.Cleanup()
		}
		return s.Activate(call.Ctx, call.Input)
	}
	// Apply middleware in reverse order so first middleware wraps outermost
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return &wrapped{Shard: s, handler: h}
}

func (w *wrapped) Warmup(ctx *shards.Context) error {
	_, err := w.handler(Call{Op: OpWarmup, Shard: w.Name(), Ctx: ctx})
	return err
}

func (w *wrapped) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	return w.handler(Call{Op: OpActivate, Shard: w.Name(), Ctx: ctx, Input: input})
}

func (w *wrapped) Cleanup() error {
	_, err := w.handler(Call{Op: OpCleanup, Shard: w.Name()})
	return err
}

// ID forwards the instance id of the wrapped shard.
func (w *wrapped) ID() entities.InstanceID {
	if id, ok := w.Shard.(shards.Identified); ok {
		return id.ID()
	}
	return 0
}

// Unwrap returns the shard behind the middleware chain.
func (w *wrapped) Unwrap() shards.Shard { return w.Shard }

// Unwrap strips middleware from s, if any.
func Unwrap(s shards.Shard) shards.Shard {
	if w, ok := s.(interface{ Unwrap() shards.Shard }); ok {
		return w.Unwrap()
	}
	return s
}
