package gui

import (
	"fmt"

	"go.uber.org/multierr"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

var contextParameters = entities.Parameters{
	{Name: "Contents", Help: "The UI contents.", Types: entities.WireOrNone},
}

// InputSource supplies the raw input of the frame started at tick.
type InputSource func(tick uint64) entities.RawInput

// Option configures a GUI shard.
type Option func(*GUI)

// WithInputSource sets where frame input comes from. Without it frames get
// an empty input.
func WithInputSource(src InputSource) Option {
	return func(g *GUI) {
		g.input = src
	}
}

// WithFrameHook is called with the output of every frame.
func WithFrameHook(fn func(entities.FrameOutput)) Option {
	return func(g *GUI) {
		g.onFrame = fn
	}
}

// GUI is the root of a UI tree. It runs one backend frame per activation and
// outputs the rendered frame text.
type GUI struct {
	shards.Base
	backend  ports.UIBackend
	input    InputSource
	onFrame  func(entities.FrameOutput)
	instance shards.ParamVar
	contents shards.Slot
	params   *shards.ParamSet
	last     entities.FrameOutput
}

// NewGUI creates a GUI shard drawing on backend.
func NewGUI(backend ports.UIBackend, opts ...Option) *GUI {
	g := &GUI{
		Base:     shards.NewBase(),
		backend:  backend,
		instance: shards.NewParamVar(entities.ContextVar(ContextName)),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.params = shards.NewParamSet("GUI", contextParameters).Slot(0, &g.contents)
	return g
}

func (g *GUI) Name() string                    { return "GUI" }
func (g *GUI) Help() string                    { return "Runs one UI frame per activation around its contents." }
func (g *GUI) InputTypes() entities.Types      { return entities.AnyTypes }
func (g *GUI) OutputTypes() entities.Types     { return entities.StringTypes }
func (g *GUI) Parameters() entities.Parameters { return contextParameters }

func (g *GUI) SetParam(index int, value entities.Var) error { return g.params.Set(index, value) }

func (g *GUI) GetParam(index int) entities.Var { return g.params.Get(index) }

// LastFrame returns the output of the most recent frame.
func (g *GUI) LastFrame() entities.FrameOutput { return g.last }

func (g *GUI) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	inner := data.WithShared(entities.ExposedInfo{
		Name:      ContextName,
		Help:      "The UI context.",
		Type:      ContextType,
		Protected: true,
	})
	if _, err := g.contents.Compose(inner); err != nil {
		return entities.TypeInfo{}, err
	}
	return entities.StringType, nil
}

func (g *GUI) Warmup(ctx *shards.Context) error {
	if g.backend == nil {
		return &sdkErrors.RuntimeError{Shard: "GUI", Err: errNoContext}
	}
	if err := g.instance.Warmup(ctx); err != nil {
		return err
	}
	return g.contents.Warmup(ctx)
}

func (g *GUI) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	var raw entities.RawInput
	if g.input != nil {
		raw = g.input(ctx.Tick())
	}
	raw.Tick = ctx.Tick()

	frame, err := g.backend.BeginFrame(raw)
	if err != nil {
		return entities.None(), fmt.Errorf("failed to begin frame: %w", err)
	}
	runErr := g.backend.Run(frame, func(root ports.Surface) error {
		g.instance.Set(entities.NewObject(ContextObjectType, root))
		defer g.instance.Set(entities.None())
		if _, err := g.contents.Activate(ctx, input); err != nil {
			return fmt.Errorf("failed to activate UI contents: %w", err)
		}
		return nil
	})
	// EndFrame runs even when the contents failed
	out, endErr := g.backend.EndFrame(frame)
	if err := multierr.Append(runErr, endErr); err != nil {
		return entities.None(), err
	}
	g.last = out
	if g.onFrame != nil {
		g.onFrame(out)
	}
	return entities.String(out.Text), nil
}

func (g *GUI) Cleanup() error {
	err := g.contents.Cleanup()
	g.instance.Cleanup()
	return err
}
