package gui

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var textInputParameters = entities.Parameters{
	{Name: "Variable", Help: "The variable that holds the text. A literal is shown read-only.", Types: entities.StringVarOrNone},
}

// TextInput edits a line of text and outputs it. A bound variable is edited
// in place; a literal string is read-only; without a value the text lives in
// the shard.
type TextInput struct {
	shards.Base
	parent   shards.ParamVar
	variable shards.ParamVar
	exposure shards.ConditionalExposure
	buffer   *entities.TextBuffer
	params   *shards.ParamSet
}

// NewTextInput creates a text input holding its own text.
func NewTextInput() *TextInput {
	t := &TextInput{
		Base:     shards.NewBase(),
		parent:   parentVar(),
		exposure: shards.NewConditionalExposure("UI.TextInput", entities.StringType, "The text being edited."),
	}
	t.params = shards.NewParamSet("UI.TextInput", textInputParameters).Var(0, &t.variable)
	return t
}

func (t *TextInput) Name() string                    { return "UI.TextInput" }
func (t *TextInput) Help() string                    { return "Edits a line of text." }
func (t *TextInput) InputTypes() entities.Types      { return entities.AnyTypes }
func (t *TextInput) OutputTypes() entities.Types     { return entities.StringTypes }
func (t *TextInput) Parameters() entities.Parameters { return textInputParameters }

func (t *TextInput) SetParam(index int, value entities.Var) error { return t.params.Set(index, value) }

func (t *TextInput) GetParam(index int) entities.Var { return t.params.Get(index) }

func (t *TextInput) RequiredVariables() entities.ExposedTypes { return parentRequirement }

func (t *TextInput) ExposedVariables() entities.ExposedTypes { return t.exposure.Exposed(&t.variable) }

func (t *TextInput) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if err := t.exposure.Compose(&t.variable, data.Shared); err != nil {
		return entities.TypeInfo{}, err
	}
	return entities.StringType, nil
}

func (t *TextInput) Warmup(ctx *shards.Context) error {
	if err := t.parent.WarmupExisting(ctx); err != nil {
		return err
	}
	if err := t.variable.Warmup(ctx); err != nil {
		return err
	}
	if t.variable.IsVariable() && t.variable.Get().IsNone() {
		t.variable.Set(entities.String(""))
	}
	return nil
}

func (t *TextInput) Activate(_ *shards.Context, _ entities.Var) (entities.Var, error) {
	surface, err := surfaceOf(t.parent.Get(), UIObjectType, errNoParent)
	if err != nil {
		return entities.None(), err
	}
	buf, err := t.load()
	if err != nil {
		return entities.None(), err
	}
	if surface.TextEdit(t.Key(0), buf) && t.variable.IsVariable() {
		t.variable.Set(buf.Var())
	}
	return buf.Var(), nil
}

// load returns the buffer edited this frame. Variables are reloaded every
// frame since other shards may write them.
func (t *TextInput) load() (*entities.TextBuffer, error) {
	switch {
	case t.variable.IsVariable():
		return entities.TextBufferFromVar(t.variable.Get(), false)
	case t.variable.IsNone():
		if t.buffer == nil {
			t.buffer = entities.NewTextBuffer("")
		}
		return t.buffer, nil
	}
	return entities.TextBufferFromVar(t.variable.Get(), true)
}

func (t *TextInput) Cleanup() error {
	t.variable.Cleanup()
	t.parent.Cleanup()
	t.buffer = nil
	return nil
}
