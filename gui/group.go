package gui

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

var groupParameters = entities.Parameters{
	{Name: "Contents", Help: "The UI contents.", Types: entities.WireOrNone},
}

// Group draws its contents in a visually grouped child surface. Variables
// exposed by the contents are visible to the shards after the group.
type Group struct {
	shards.Base
	parent   shards.ParamVar
	contents shards.Slot
	exposed  entities.ExposedTypes
	params   *shards.ParamSet
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	g := &Group{Base: shards.NewBase(), parent: parentVar()}
	g.params = shards.NewParamSet("UI.Group", groupParameters).Slot(0, &g.contents)
	return g
}

func (g *Group) Name() string                    { return "UI.Group" }
func (g *Group) Help() string                    { return "Groups its contents visually." }
func (g *Group) InputTypes() entities.Types      { return entities.AnyTypes }
func (g *Group) OutputTypes() entities.Types     { return entities.AnyTypes }
func (g *Group) Parameters() entities.Parameters { return groupParameters }

func (g *Group) SetParam(index int, value entities.Var) error { return g.params.Set(index, value) }

func (g *Group) GetParam(index int) entities.Var { return g.params.Get(index) }

func (g *Group) RequiredVariables() entities.ExposedTypes { return parentRequirement }

func (g *Group) ExposedVariables() entities.ExposedTypes { return g.exposed }

func (g *Group) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	res, err := g.contents.Compose(data)
	if err != nil {
		return entities.TypeInfo{}, err
	}
	g.exposed = res.Exposed
	return data.InputType, nil
}

func (g *Group) Warmup(ctx *shards.Context) error {
	if err := g.parent.WarmupExisting(ctx); err != nil {
		return err
	}
	return g.contents.Warmup(ctx)
}

func (g *Group) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	if g.contents.IsEmpty() {
		return input, nil
	}
	surface, err := surfaceOf(g.parent.Get(), UIObjectType, errNoParent)
	if err != nil {
		return entities.None(), err
	}
	err = surface.Group(g.Key(0), func(child ports.Surface) error {
		return withParent(&g.parent, child, func() error {
			_, err := g.contents.Activate(ctx, input)
			return err
		})
	})
	if err != nil {
		return entities.None(), err
	}
	return input, nil
}

func (g *Group) Cleanup() error {
	err := g.contents.Cleanup()
	g.parent.Cleanup()
	return err
}
