package gui_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/builtins"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/gui"
	"github.com/reglet-dev/shards-sdk/go/registry"
	"github.com/reglet-dev/shards-sdk/go/shardstest"
)

// harness wraps a Panels shard in a GUI root drawing on a fake backend.
type harness struct {
	backend *shardstest.FakeBackend
	root    *gui.GUI
	panels  *gui.Panels
	wire    *shards.Wire
}

func newHarness(t *testing.T, regions map[int]*shards.Wire, opts ...gui.Option) *harness {
	t.Helper()
	h := &harness{backend: shardstest.NewFakeBackend(), panels: gui.NewPanels()}
	for i, w := range regions {
		require.NoError(t, h.panels.SetParam(i, shards.WireVar(w)))
	}
	h.root = gui.NewGUI(h.backend, opts...)
	require.NoError(t, h.root.SetParam(0, shards.WireVar(shards.NewWire("ui", h.panels))))
	h.wire = shards.NewWire("main", h.root)
	return h
}

func label(text string) *gui.Label {
	l := gui.NewLabel()
	if err := l.SetParam(0, entities.String(text)); err != nil {
		panic(err)
	}
	return l
}

func TestPanels_TraversalOrder(t *testing.T) {
	h := newHarness(t, map[int]*shards.Wire{
		0: shards.NewWire("top", label("top")),
		1: shards.NewWire("left", label("left")),
		2: shards.NewWire("center", label("center")),
		3: shards.NewWire("right", label("right")),
		4: shards.NewWire("bottom", label("bottom")),
	})

	out, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.NoError(t, err)

	frame := h.root.LastFrame()
	assert.Equal(t, entities.String(frame.Text), out)
	assert.Equal(t, []entities.IdentityKey{
		h.panels.Key(0), h.panels.Key(1), h.panels.Key(3), h.panels.Key(4), h.panels.Key(2),
	}, frame.Regions)
	assert.Contains(t, frame.Text, "panel top "+h.panels.Key(0).String()+"\n  label top")
	assert.Contains(t, frame.Text, "panel center "+h.panels.Key(2).String()+"\n  label center")
}

func TestPanels_IdentityIsStableAcrossTicks(t *testing.T) {
	var frames []entities.FrameOutput
	h := newHarness(t, map[int]*shards.Wire{
		1: shards.NewWire("left", label("a")),
		3: shards.NewWire("right", label("b")),
	}, gui.WithFrameHook(func(out entities.FrameOutput) {
		frames = append(frames, out)
	}))

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, frames, 3)
	for _, f := range frames {
		assert.Equal(t, frames[0].Regions, f.Regions)
	}
	require.Len(t, frames[0].Regions, 2)
	assert.NotEqual(t, frames[0].Regions[0], frames[0].Regions[1])
	assert.Equal(t, 3, h.backend.Frames())

	other := gui.NewPanels()
	assert.NotEqual(t, h.panels.Key(1), other.Key(1))
}

func TestPanels_EmptySlotsAreSkipped(t *testing.T) {
	rec := &shardstest.Recorder{}
	center := shardstest.NewStub("center", rec)
	h := newHarness(t, map[int]*shards.Wire{
		0: shards.NewWire("top"),
		2: shards.NewWire("center", center),
	})

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []entities.IdentityKey{h.panels.Key(2)}, h.root.LastFrame().Regions)
	assert.Equal(t, []string{"compose:center", "warmup:center", "activate:center", "cleanup:center"}, rec.Calls())
}

func TestPanels_LifecycleOrder(t *testing.T) {
	rec := &shardstest.Recorder{}
	regions := map[int]*shards.Wire{}
	for i, name := range []string{"top", "left", "center", "right", "bottom"} {
		regions[i] = shards.NewWire(name, shardstest.NewStub(name, rec))
	}
	h := newHarness(t, regions)

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.NoError(t, err)

	order := []string{"top", "left", "right", "bottom", "center"}
	assert.Equal(t, order, rec.Ops("compose"))
	assert.Equal(t, order, rec.Ops("warmup"))
	assert.Equal(t, order, rec.Ops("activate"))
	assert.Equal(t, []string{"center", "bottom", "right", "left", "top"}, rec.Ops("cleanup"))
}

func TestPanels_FailureAbortsRemainingPanels(t *testing.T) {
	rec := &shardstest.Recorder{}
	boom := errors.New("boom")
	h := newHarness(t, map[int]*shards.Wire{
		0: shards.NewWire("top", shardstest.NewStub("top", rec)),
		1: shards.NewWire("left", shardstest.Failing("left", rec, boom)),
		2: shards.NewWire("center", shardstest.NewStub("center", rec)),
		3: shards.NewWire("right", shardstest.NewStub("right", rec)),
	})

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to activate left panel")
	shardstest.RequireRuntimeError(t, err, "Stub.left")

	assert.Equal(t, []string{"top", "left"}, rec.Ops("activate"))
	assert.Len(t, rec.Ops("cleanup"), 4)
	assert.Equal(t, 1, h.backend.Frames())
}

func TestWidgetOutsidePanelsFailsCompose(t *testing.T) {
	root := gui.NewGUI(shardstest.NewFakeBackend())
	require.NoError(t, root.SetParam(0, shards.WireVar(shards.NewWire("ui", label("x")))))

	_, err := shards.NewRunner(shards.NewWire("main", root)).Compose()
	ce := shardstest.RequireCompositionError(t, err, "UI.Label", gui.ParentName)
	assert.Equal(t, "required variable not found", ce.Message)
}

func TestPanelsOutsideGUIFailsCompose(t *testing.T) {
	_, err := shards.NewRunner(shards.NewWire("main", gui.NewPanels())).Compose()
	shardstest.RequireCompositionError(t, err, "GUI.Panels", gui.ContextName)
}

func TestProtectedNamesCannotBeBound(t *testing.T) {
	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", builtins.NewConst(entities.Int(1)), builtins.NewSet(gui.ParentName)),
	})

	_, err := shards.NewRunner(h.wire).Compose()
	ce := shardstest.RequireCompositionError(t, err, "Set", gui.ParentName)
	assert.Equal(t, "variable is reserved", ce.Message)
}

func TestCombo_DeclaresVariable(t *testing.T) {
	combo := gui.NewCombo()
	require.NoError(t, combo.SetParam(0, entities.String("Fruit")))
	require.NoError(t, combo.SetParam(1, entities.ContextVar("choice")))

	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center",
			builtins.NewConst(entities.Strings("apple", "banana", "cherry")),
			combo,
			builtins.NewSet("picked"),
		),
	})
	h.backend.Selections[combo.Key(0)] = 2

	r := shards.NewRunner(h.wire)
	require.NoError(t, r.Start(context.Background()))
	_, err := r.Tick()
	require.NoError(t, err)

	assert.Equal(t, entities.ExposedTypes{{Name: "choice", Help: "The selected index.", Type: entities.IntType, Mutable: true}}, combo.ExposedVariables())
	choice, ok := r.Context().Variable("choice")
	require.True(t, ok)
	assert.Equal(t, entities.Int(2), *choice)
	picked, ok := r.Context().Variable("picked")
	require.True(t, ok)
	assert.Equal(t, entities.String("cherry"), *picked)
	require.NoError(t, r.Stop())
}

func TestCombo_AdoptsGlobal(t *testing.T) {
	combo := gui.NewCombo()
	require.NoError(t, combo.SetParam(1, entities.ContextVar("choice")))
	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", builtins.NewConst(entities.Strings("a", "b")), combo),
	})

	r := shards.NewRunner(h.wire, shards.WithGlobal("choice", entities.Int(1)))
	out, err := r.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Empty(t, combo.ExposedVariables())
	assert.Contains(t, h.root.LastFrame().Text, `"" [a b] 1`)
}

func TestCombo_RequiresIntVariable(t *testing.T) {
	combo := gui.NewCombo()
	require.NoError(t, combo.SetParam(1, entities.ContextVar("choice")))
	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", builtins.NewConst(entities.Strings("a")), combo),
	})

	_, err := shards.NewRunner(h.wire, shards.WithGlobal("choice", entities.String("a"))).Compose()
	ce := shardstest.RequireCompositionError(t, err, "UI.Combo", "choice")
	assert.Equal(t, "requires an int variable, found String", ce.Message)
}

func TestCombo_RejectsNonSeqInput(t *testing.T) {
	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", builtins.NewConst(entities.Int(1)), gui.NewCombo()),
	})

	_, err := shards.NewRunner(h.wire).Compose()
	shardstest.RequireCompositionError(t, err, "UI.Combo", "")
}

func TestTextInput_EditsVariable(t *testing.T) {
	input := gui.NewTextInput()
	require.NoError(t, input.SetParam(0, entities.ContextVar("name")))
	h := newHarness(t, map[int]*shards.Wire{2: shards.NewWire("center", input)})
	h.backend.Typing[input.Key(0)] = "héllo"

	r := shards.NewRunner(h.wire)
	require.NoError(t, r.Start(context.Background()))
	_, err := r.Tick()
	require.NoError(t, err)
	h.backend.Typing[input.Key(0)] = "!"
	_, err = r.Tick()
	require.NoError(t, err)

	name, ok := r.Context().Variable("name")
	require.True(t, ok)
	assert.Equal(t, entities.String("héllo!"), *name)
	require.NoError(t, r.Stop())
}

func TestTextInput_LiteralIsReadOnly(t *testing.T) {
	input := gui.NewTextInput()
	require.NoError(t, input.SetParam(0, entities.String("fixed")))
	h := newHarness(t, map[int]*shards.Wire{2: shards.NewWire("center", input)})
	h.backend.Typing[input.Key(0)] = "more"

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, h.root.LastFrame().Text, `"fixed"`)
	assert.Empty(t, input.ExposedVariables())
}

func TestTextInput_OwnBuffer(t *testing.T) {
	input := gui.NewTextInput()
	h := newHarness(t, map[int]*shards.Wire{2: shards.NewWire("center", input, builtins.NewSet("copy"))})
	h.backend.Typing[input.Key(0)] = "ab"

	r := shards.NewRunner(h.wire)
	require.NoError(t, r.Start(context.Background()))
	_, err := r.Tick()
	require.NoError(t, err)
	_, err = r.Tick()
	require.NoError(t, err)

	copied, ok := r.Context().Variable("copy")
	require.True(t, ok)
	assert.Equal(t, entities.String("ab"), *copied)
	require.NoError(t, r.Stop())
}

func TestGroup_ExposesContents(t *testing.T) {
	input := gui.NewTextInput()
	require.NoError(t, input.SetParam(0, entities.ContextVar("name")))
	group := gui.NewGroup()
	require.NoError(t, group.SetParam(0, shards.WireVar(shards.NewWire("group", input))))

	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", group, builtins.NewGet("name")),
	})
	h.backend.Typing[input.Key(0)] = "x"

	out, err := shards.NewRunner(h.wire).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	require.Len(t, group.ExposedVariables(), 1)
	assert.Contains(t, h.root.LastFrame().Text, "group "+group.Key(0).String()+"\n    text")
}

func TestPlot_CollectsLines(t *testing.T) {
	plot := gui.NewPlot()
	points := entities.Seq(entities.Floats(0, 0), entities.Floats(1, 2))
	require.NoError(t, plot.SetParam(0, shards.WireVar(shards.NewWire("lines",
		builtins.NewConst(points),
		gui.NewPlotLine(),
		builtins.NewConst(entities.Seq(entities.Floats(0, 1))),
		gui.NewPlotLine(),
	))))
	h := newHarness(t, map[int]*shards.Wire{2: shards.NewWire("center", plot)})

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, [][][2]float64{{{0, 0}, {1, 2}}, {{0, 1}}}, h.backend.Lines[plot.Key(0)])
}

func TestPlot_NestedPlotKeepsOuterLines(t *testing.T) {
	inner := gui.NewPlot()
	require.NoError(t, inner.SetParam(0, shards.WireVar(shards.NewWire("inner",
		builtins.NewConst(entities.Seq(entities.Floats(9, 9))),
		gui.NewPlotLine(),
	))))
	outer := gui.NewPlot()
	require.NoError(t, outer.SetParam(0, shards.WireVar(shards.NewWire("outer",
		builtins.NewConst(entities.Seq(entities.Floats(1, 1))),
		gui.NewPlotLine(),
		inner,
	))))
	h := newHarness(t, map[int]*shards.Wire{2: shards.NewWire("center", outer)})

	_, err := shards.NewRunner(h.wire).Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, [][][2]float64{{{9, 9}}}, h.backend.Lines[inner.Key(0)])
	assert.Equal(t, [][][2]float64{{{1, 1}}}, h.backend.Lines[outer.Key(0)])
}

func TestPlotLine_OutsidePlotFailsCompose(t *testing.T) {
	h := newHarness(t, map[int]*shards.Wire{
		2: shards.NewWire("center", builtins.NewConst(entities.Seq(entities.Floats(0, 1))), gui.NewPlotLine()),
	})

	_, err := shards.NewRunner(h.wire).Compose()
	shardstest.RequireCompositionError(t, err, "UI.PlotLine", gui.LinesName)
}

func TestGUI_WithoutBackend(t *testing.T) {
	_, err := shards.NewRunner(shards.NewWire("main", gui.NewGUI(nil))).Run(context.Background(), 1)
	shardstest.RequireRuntimeError(t, err, "GUI")
}

func TestGUI_InputSource(t *testing.T) {
	backend := shardstest.NewFakeBackend()
	root := gui.NewGUI(backend, gui.WithInputSource(func(tick uint64) entities.RawInput {
		return entities.RawInput{Keys: []string{"tab"}}
	}))

	_, err := shards.NewRunner(shards.NewWire("main", root)).Run(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, backend.Inputs, 2)
	assert.Equal(t, uint64(2), backend.Inputs[1].Tick)
	assert.Equal(t, []string{"tab"}, backend.Inputs[0].Keys)
}

func TestGUI_BeginFrameError(t *testing.T) {
	backend := shardstest.NewFakeBackend()
	backend.BeginErr = errors.New("no display")

	_, err := shards.NewRunner(shards.NewWire("main", gui.NewGUI(backend))).Run(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin frame")
}

func TestBundle(t *testing.T) {
	reg, err := registry.New(registry.WithBundle(gui.Bundle(shardstest.NewFakeBackend())))
	require.NoError(t, err)

	names, err := reg.Match("UI.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"UI.Combo", "UI.Group", "UI.Label", "UI.Plot", "UI.PlotLine", "UI.TextInput"}, names)
	assert.True(t, reg.Has("GUI"))
	assert.True(t, reg.Has("GUI.Panels"))
}
