package gui

import (
	"fmt"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var plotParameters = entities.Parameters{
	{Name: "Contents", Help: "Shards adding lines with UI.PlotLine.", Types: entities.WireOrNone},
}

// Plot runs its contents, which add lines through the protected UI.Lines
// accumulator, then draws the collected lines.
type Plot struct {
	shards.Base
	parent   shards.ParamVar
	lines    shards.ParamVar
	contents shards.Slot
	exposed  entities.ExposedTypes
	params   *shards.ParamSet
}

// NewPlot creates an empty plot.
func NewPlot() *Plot {
	p := &Plot{
		Base:   shards.NewBase(),
		parent: parentVar(),
		lines:  shards.NewParamVar(entities.ContextVar(LinesName)),
	}
	p.params = shards.NewParamSet("UI.Plot", plotParameters).Slot(0, &p.contents)
	return p
}

func (p *Plot) Name() string                    { return "UI.Plot" }
func (p *Plot) Help() string                    { return "Plots the lines added by its contents." }
func (p *Plot) InputTypes() entities.Types      { return entities.AnyTypes }
func (p *Plot) OutputTypes() entities.Types     { return entities.AnyTypes }
func (p *Plot) Parameters() entities.Parameters { return plotParameters }

func (p *Plot) SetParam(index int, value entities.Var) error { return p.params.Set(index, value) }

func (p *Plot) GetParam(index int) entities.Var { return p.params.Get(index) }

func (p *Plot) RequiredVariables() entities.ExposedTypes { return parentRequirement }

func (p *Plot) ExposedVariables() entities.ExposedTypes { return p.exposed }

func (p *Plot) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	inner := data.WithShared(entities.ExposedInfo{
		Name:      LinesName,
		Help:      "The lines of the enclosing plot.",
		Type:      LinesType,
		Mutable:   true,
		Protected: true,
	})
	res, err := p.contents.Compose(inner)
	if err != nil {
		return entities.TypeInfo{}, err
	}
	p.exposed = res.Exposed
	return data.InputType, nil
}

func (p *Plot) Warmup(ctx *shards.Context) error {
	if err := p.parent.WarmupExisting(ctx); err != nil {
		return err
	}
	if err := p.lines.Warmup(ctx); err != nil {
		return err
	}
	p.lines.Set(entities.Seq())
	return p.contents.Warmup(ctx)
}

func (p *Plot) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	if p.contents.IsEmpty() {
		return input, nil
	}
	surface, err := surfaceOf(p.parent.Get(), UIObjectType, errNoParent)
	if err != nil {
		return entities.None(), err
	}

	// Restore the lines of an enclosing plot once ours are drawn.
	prev := p.lines.Get()
	defer p.lines.Set(prev)
	p.lines.Set(entities.Seq())
	if _, err := p.contents.Activate(ctx, input); err != nil {
		return entities.None(), err
	}
	lines, err := toLines(p.lines.Get())
	if err != nil {
		return entities.None(), err
	}
	surface.Plot(p.Key(0), lines)
	return input, nil
}

func (p *Plot) Cleanup() error {
	err := p.contents.Cleanup()
	p.lines.Cleanup()
	p.parent.Cleanup()
	return err
}

func toLines(v entities.Var) ([][][2]float64, error) {
	seq, err := v.AsSeq()
	if err != nil {
		return nil, err
	}
	lines := make([][][2]float64, 0, len(seq))
	for i, line := range seq {
		points, err := line.AsSeq()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out := make([][2]float64, len(points))
		for j, point := range points {
			xy, err := point.AsFloats()
			if err != nil || len(xy) != 2 {
				return nil, fmt.Errorf("line %d point %d: expected a pair of floats", i, j)
			}
			out[j] = [2]float64{xy[0], xy[1]}
		}
		lines = append(lines, out)
	}
	return lines, nil
}

// PlotLine adds its input, a sequence of (x, y) points, to the enclosing plot.
type PlotLine struct {
	shards.Base
	lines shards.ParamVar
}

// NewPlotLine creates a PlotLine shard.
func NewPlotLine() *PlotLine {
	return &PlotLine{
		Base:  shards.NewBase(),
		lines: shards.NewParamVar(entities.ContextVar(LinesName)),
	}
}

func (l *PlotLine) Name() string                    { return "UI.PlotLine" }
func (l *PlotLine) Help() string                    { return "Adds a line to the enclosing UI.Plot." }
func (l *PlotLine) InputTypes() entities.Types      { return entities.Float2SeqTypes }
func (l *PlotLine) OutputTypes() entities.Types     { return entities.Float2SeqTypes }
func (l *PlotLine) Parameters() entities.Parameters { return nil }

func (l *PlotLine) SetParam(index int, value entities.Var) error {
	return shards.NewParamSet("UI.PlotLine", nil).Set(index, value)
}

func (l *PlotLine) GetParam(int) entities.Var { return entities.None() }

func (l *PlotLine) RequiredVariables() entities.ExposedTypes {
	return entities.ExposedTypes{{Name: LinesName, Type: LinesType, Mutable: true}}
}

func (l *PlotLine) Compose(shards.InstanceData) (entities.TypeInfo, error) {
	return entities.Float2SeqType, nil
}

func (l *PlotLine) Warmup(ctx *shards.Context) error {
	return l.lines.WarmupExisting(ctx)
}

func (l *PlotLine) Activate(_ *shards.Context, input entities.Var) (entities.Var, error) {
	lines, err := l.lines.Get().Append(input.Clone())
	if err != nil {
		return entities.None(), err
	}
	l.lines.Set(lines)
	return input, nil
}

func (l *PlotLine) Cleanup() error {
	l.lines.Cleanup()
	return nil
}
