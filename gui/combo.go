package gui

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var comboParameters = entities.Parameters{
	{Name: "Label", Help: "The text label of this combo box.", Types: entities.StringOrNone},
	{Name: "Variable", Help: "The variable that holds the selected index.", Types: entities.IntVarOrNone},
}

// Combo selects one item of its input sequence and outputs it. The selected
// index lives in Variable when bound, otherwise in the shard.
type Combo struct {
	shards.Base
	parent   shards.ParamVar
	label    entities.Var
	variable shards.ParamVar
	exposure shards.ConditionalExposure
	selected int
	params   *shards.ParamSet
}

// NewCombo creates an unlabeled combo box.
func NewCombo() *Combo {
	c := &Combo{
		Base:     shards.NewBase(),
		parent:   parentVar(),
		exposure: shards.NewConditionalExposure("UI.Combo", entities.IntType, "The selected index."),
	}
	c.params = shards.NewParamSet("UI.Combo", comboParameters).
		Value(0, &c.label).
		Var(1, &c.variable)
	return c
}

func (c *Combo) Name() string                    { return "UI.Combo" }
func (c *Combo) Help() string                    { return "Selects one item of the input sequence." }
func (c *Combo) InputTypes() entities.Types      { return entities.AnySeqTypes }
func (c *Combo) OutputTypes() entities.Types     { return entities.AnyTypes }
func (c *Combo) Parameters() entities.Parameters { return comboParameters }

func (c *Combo) SetParam(index int, value entities.Var) error { return c.params.Set(index, value) }

func (c *Combo) GetParam(index int) entities.Var { return c.params.Get(index) }

func (c *Combo) RequiredVariables() entities.ExposedTypes { return parentRequirement }

func (c *Combo) ExposedVariables() entities.ExposedTypes { return c.exposure.Exposed(&c.variable) }

func (c *Combo) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if err := c.exposure.Compose(&c.variable, data.Shared); err != nil {
		return entities.TypeInfo{}, err
	}
	if len(data.InputType.Elements) == 1 {
		return data.InputType.Elements[0], nil
	}
	return entities.AnyType, nil
}

func (c *Combo) Warmup(ctx *shards.Context) error {
	if err := c.parent.WarmupExisting(ctx); err != nil {
		return err
	}
	if err := c.variable.Warmup(ctx); err != nil {
		return err
	}
	if c.variable.IsVariable() && c.variable.Get().IsNone() {
		c.variable.Set(entities.Int(0))
	}
	return nil
}

func (c *Combo) Activate(_ *shards.Context, input entities.Var) (entities.Var, error) {
	surface, err := surfaceOf(c.parent.Get(), UIObjectType, errNoParent)
	if err != nil {
		return entities.None(), err
	}
	items, err := input.AsSeq()
	if err != nil {
		return entities.None(), err
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.String()
	}

	index := c.index()
	label, _ := c.label.AsString()
	selected := surface.Combo(c.Key(0), label, labels, index)
	if len(items) == 0 {
		return entities.None(), nil
	}
	selected = clamp(selected, len(items))
	if selected != index {
		c.setIndex(selected)
	}
	return items[selected].Clone(), nil
}

func (c *Combo) index() int {
	if !c.variable.IsVariable() {
		return c.selected
	}
	n, _ := c.variable.Get().AsInt()
	return int(n)
}

func (c *Combo) setIndex(i int) {
	if c.variable.IsVariable() {
		c.variable.Set(entities.Int(int64(i)))
		return
	}
	c.selected = i
}

func (c *Combo) Cleanup() error {
	c.variable.Cleanup()
	c.parent.Cleanup()
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
