package gui

import (
	"fmt"
	"strings"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

var panelsParameters = entities.Parameters{
	{Name: "Top", Help: "A panel that covers the entire top of a UI surface.", Types: entities.WireOrNone},
	{Name: "Left", Help: "A panel that covers the entire left side of a UI surface.", Types: entities.WireOrNone},
	{Name: "Center", Help: "A panel that covers whatever area is left after adding other panels.", Types: entities.WireOrNone},
	{Name: "Right", Help: "A panel that covers the entire right side of a UI surface.", Types: entities.WireOrNone},
	{Name: "Bottom", Help: "A panel that covers the entire bottom of a UI surface.", Types: entities.WireOrNone},
}

var panelNames = []string{"Top", "Left", "Center", "Right", "Bottom"}

// panelOrder visits the center panel last: it takes the remaining area.
var panelOrder = []int{0, 1, 3, 4, 2}

var panelRegions = []ports.Region{
	ports.RegionTop,
	ports.RegionLeft,
	ports.RegionCenter,
	ports.RegionRight,
	ports.RegionBottom,
}

// Panels lays out up to five panels on the root surface. Each non-empty panel
// is keyed by the shard id and its parameter index.
type Panels struct {
	shards.Base
	instance shards.ParamVar
	parent   shards.ParamVar
	regions  *shards.Regions
	params   *shards.ParamSet
}

// NewPanels creates a Panels shard with every region empty.
func NewPanels() *Panels {
	p := &Panels{
		Base:     shards.NewBase(),
		instance: shards.NewParamVar(entities.ContextVar(ContextName)),
		parent:   parentVar(),
		regions:  shards.NewRegions(panelNames, panelOrder),
	}
	p.params = p.regions.Params(shards.NewParamSet("GUI.Panels", panelsParameters), 0)
	return p
}

func (p *Panels) Name() string                    { return "GUI.Panels" }
func (p *Panels) Help() string                    { return "Lays out panels around a central area." }
func (p *Panels) InputTypes() entities.Types      { return entities.AnyTypes }
func (p *Panels) OutputTypes() entities.Types     { return entities.AnyTypes }
func (p *Panels) Parameters() entities.Parameters { return panelsParameters }

func (p *Panels) SetParam(index int, value entities.Var) error { return p.params.Set(index, value) }

func (p *Panels) GetParam(index int) entities.Var { return p.params.Get(index) }

func (p *Panels) RequiredVariables() entities.ExposedTypes {
	return entities.ExposedTypes{{Name: ContextName, Help: "The UI context.", Type: ContextType}}
}

func (p *Panels) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	inner := data.WithShared(entities.ExposedInfo{
		Name:      ParentName,
		Help:      "The parent UI surface.",
		Type:      UIType,
		Protected: true,
	})
	if err := p.regions.Compose(inner); err != nil {
		return entities.TypeInfo{}, err
	}
	return data.InputType, nil
}

func (p *Panels) Warmup(ctx *shards.Context) error {
	if err := p.instance.WarmupExisting(ctx); err != nil {
		return err
	}
	if err := p.parent.Warmup(ctx); err != nil {
		return err
	}
	return p.regions.Warmup(ctx)
}

func (p *Panels) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	root, err := surfaceOf(p.instance.Get(), ContextObjectType, errNoContext)
	if err != nil {
		return entities.None(), err
	}
	err = p.regions.Each(func(i int, slot *shards.Slot) error {
		err := root.Panel(panelRegions[i], p.Key(i), func(s ports.Surface) error {
			return withParent(&p.parent, s, func() error {
				_, err := slot.Activate(ctx, input)
				return err
			})
		})
		if err != nil {
			return fmt.Errorf("failed to activate %s panel: %w", strings.ToLower(p.regions.Name(i)), err)
		}
		return nil
	})
	if err != nil {
		return entities.None(), err
	}
	return input, nil
}

func (p *Panels) Cleanup() error {
	err := p.regions.Cleanup()
	p.parent.Cleanup()
	p.instance.Cleanup()
	return err
}
