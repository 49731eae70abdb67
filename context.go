package shards

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/log"
)

// Context is the runtime scope of one wire run. It owns the variable table
// that ParamVars resolve against, the per-tick failure flag and the
// cancellation state inherited from the host context.
//
// A Context is used by a single goroutine; shards must not retain it beyond
// the call that received it.
type Context struct {
	parent  context.Context
	vars    map[string]*entities.Var
	logger  *zap.Logger
	slogger *slog.Logger
	failure error
	runID   uuid.UUID
	tick    uint64
	stopped bool
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithContextLogger sets the logger handed to shards.
func WithContextLogger(l *zap.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVariable pre-declares a variable, typically a host global.
func WithVariable(name string, value entities.Var) ContextOption {
	return func(c *Context) {
		v := value
		c.vars[name] = &v
	}
}

// NewContext creates a run scope bound to parent. A nil parent means
// context.Background.
func NewContext(parent context.Context, opts ...ContextOption) *Context {
	if parent == nil {
		parent = context.Background()
	}
	c := &Context{
		parent: parent,
		vars:   make(map[string]*entities.Var),
		logger: Logger(),
		runID:  uuid.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("run_id", c.runID.String()))
	return c
}

// Context returns the host context.
func (c *Context) Context() context.Context { return c.parent }

// RunID identifies this run in logs.
func (c *Context) RunID() uuid.UUID { return c.runID }

// Tick returns the number of the current tick, starting at 1.
func (c *Context) Tick() uint64 { return c.tick }

// Logger returns the run logger.
func (c *Context) Logger() *zap.Logger { return c.logger }

// Slog returns a log/slog view of the run logger.
func (c *Context) Slog() *slog.Logger {
	if c.slogger == nil {
		c.slogger = slog.New(log.NewHandler(c.logger, log.WithLevel(slog.LevelDebug)))
	}
	return c.slogger
}

// Variable returns the storage of a declared variable.
func (c *Context) Variable(name string) (*entities.Var, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Declare returns the storage of name, creating it with initial if missing.
func (c *Context) Declare(name string, initial entities.Var) *entities.Var {
	if v, ok := c.vars[name]; ok {
		return v
	}
	v := initial
	c.vars[name] = &v
	return &v
}

// Release removes a variable from the scope. Outstanding references keep the
// old storage alive but no longer observe later declarations.
func (c *Context) Release(name string) {
	delete(c.vars, name)
}

// Fail marks the current tick as failed. Only the first failure is kept.
func (c *Context) Fail(err error) {
	if c.failure == nil && err != nil {
		c.failure = err
	}
}

// Failure returns the failure recorded during the current tick.
func (c *Context) Failure() error { return c.failure }

// Stop requests the run to end. Shards not yet activated in the current tick
// are skipped.
func (c *Context) Stop() { c.stopped = true }

// ShouldStop reports whether activation must not continue: the tick failed,
// a stop was requested, or the host context is done.
func (c *Context) ShouldStop() bool {
	return c.failure != nil || c.stopped || c.parent.Err() != nil
}

// Err explains why ShouldStop is true, or returns nil.
func (c *Context) Err() error {
	switch {
	case c.failure != nil:
		return c.failure
	case c.parent.Err() != nil:
		return c.parent.Err()
	case c.stopped:
		return sdkErrors.ErrStopped
	}
	return nil
}

// Stopped reports whether Stop was called or the host context is done.
func (c *Context) Stopped() bool {
	return c.stopped || c.parent.Err() != nil
}

func (c *Context) beginTick() {
	c.tick++
	c.failure = nil
}
