package builtins

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var constParameters = entities.Parameters{
	{Name: "Value", Help: "The value to output.", Types: entities.AnyTypes},
}

// Const outputs a fixed value, ignoring its input.
type Const struct {
	shards.Base
	value  entities.Var
	params *shards.ParamSet
}

// NewConst creates a Const shard outputting v.
func NewConst(v entities.Var) *Const {
	c := &Const{Base: shards.NewBase(), value: v}
	c.params = shards.NewParamSet("Const", constParameters).Value(0, &c.value)
	return c
}

func (c *Const) Name() string                    { return "Const" }
func (c *Const) Help() string                    { return "Outputs a constant value." }
func (c *Const) InputTypes() entities.Types      { return entities.AnyTypes }
func (c *Const) OutputTypes() entities.Types     { return entities.AnyTypes }
func (c *Const) Parameters() entities.Parameters { return constParameters }

func (c *Const) SetParam(index int, value entities.Var) error { return c.params.Set(index, value) }

func (c *Const) GetParam(index int) entities.Var { return c.params.Get(index) }

func (c *Const) Compose(shards.InstanceData) (entities.TypeInfo, error) {
	return c.value.TypeInfo(), nil
}

func (c *Const) Activate(*shards.Context, entities.Var) (entities.Var, error) {
	return c.value, nil
}
