package gui

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var labelParameters = entities.Parameters{
	{Name: "Text", Help: "The text to show. The input is shown when None.", Types: entities.StringVarOrNone},
}

// Label shows static text, a variable or its input.
type Label struct {
	shards.Base
	parent shards.ParamVar
	text   shards.ParamVar
	params *shards.ParamSet
}

// NewLabel creates a label showing its input.
func NewLabel() *Label {
	l := &Label{Base: shards.NewBase(), parent: parentVar()}
	l.params = shards.NewParamSet("UI.Label", labelParameters).Var(0, &l.text)
	return l
}

func (l *Label) Name() string                    { return "UI.Label" }
func (l *Label) Help() string                    { return "Shows a line of text." }
func (l *Label) InputTypes() entities.Types      { return entities.AnyTypes }
func (l *Label) OutputTypes() entities.Types     { return entities.AnyTypes }
func (l *Label) Parameters() entities.Parameters { return labelParameters }

func (l *Label) SetParam(index int, value entities.Var) error { return l.params.Set(index, value) }

func (l *Label) GetParam(index int) entities.Var { return l.params.Get(index) }

func (l *Label) RequiredVariables() entities.ExposedTypes {
	if !l.text.IsVariable() {
		return parentRequirement
	}
	return parentRequirement.With(entities.ExposedInfo{Name: l.text.Name(), Type: entities.StringType})
}

func (l *Label) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	return data.InputType, nil
}

func (l *Label) Warmup(ctx *shards.Context) error {
	if err := l.parent.WarmupExisting(ctx); err != nil {
		return err
	}
	return l.text.Warmup(ctx)
}

func (l *Label) Activate(_ *shards.Context, input entities.Var) (entities.Var, error) {
	surface, err := surfaceOf(l.parent.Get(), UIObjectType, errNoParent)
	if err != nil {
		return entities.None(), err
	}
	text := input.String()
	if v := l.text.Get(); !v.IsNone() {
		text = v.String()
	}
	surface.Label(text)
	return input, nil
}

func (l *Label) Cleanup() error {
	l.text.Cleanup()
	l.parent.Cleanup()
	return nil
}
