package termui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

func key(owner, slot int) entities.IdentityKey {
	return entities.NewIdentityKey(entities.InstanceID(owner), slot)
}

// drawFrame draws one frame with body and returns its output.
func drawFrame(t *testing.T, b *Backend, input entities.RawInput, body func(ports.Surface) error) entities.FrameOutput {
	t.Helper()
	h, err := b.BeginFrame(input)
	require.NoError(t, err)
	require.NoError(t, b.Run(h, body))
	out, err := b.EndFrame(h)
	require.NoError(t, err)
	return out
}

func TestBackend_LayoutRegions(t *testing.T) {
	b := New(WithWidth(60), WithSideWidth(16))

	out := drawFrame(t, b, entities.RawInput{}, func(root ports.Surface) error {
		for i, region := range []ports.Region{ports.RegionTop, ports.RegionLeft, ports.RegionRight, ports.RegionBottom, ports.RegionCenter} {
			name := region.String()
			if err := root.Panel(region, key(1, i), func(s ports.Surface) error {
				s.Label(name + "-panel")
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})

	lines := strings.Split(out.Text, "\n")
	indexOf := func(text string) int {
		for i, line := range lines {
			if strings.Contains(line, text) {
				return i
			}
		}
		return -1
	}
	top, left, center, right, bottom := indexOf("top-panel"), indexOf("left-panel"), indexOf("center-panel"), indexOf("right-panel"), indexOf("bottom-panel")
	require.NotEqual(t, -1, top)
	require.NotEqual(t, -1, bottom)
	assert.Less(t, top, left)
	assert.Equal(t, left, center)
	assert.Equal(t, center, right)
	assert.Less(t, center, bottom)

	middle := lines[center]
	assert.Less(t, strings.Index(middle, "left-panel"), strings.Index(middle, "center-panel"))
	assert.Less(t, strings.Index(middle, "center-panel"), strings.Index(middle, "right-panel"))

	assert.Equal(t, []entities.IdentityKey{key(1, 0), key(1, 1), key(1, 2), key(1, 3), key(1, 4)}, out.Regions)
	assert.Equal(t, uint64(1), b.Frames())
}

func TestBackend_PanelOutsideRoot(t *testing.T) {
	b := New()
	h, err := b.BeginFrame(entities.RawInput{})
	require.NoError(t, err)

	err = b.Run(h, func(root ports.Surface) error {
		return root.Group(key(1, 0), func(s ports.Surface) error {
			return s.Panel(ports.RegionLeft, key(1, 1), func(ports.Surface) error { return nil })
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root surface")
}

func TestBackend_IdentityCollision(t *testing.T) {
	b := New()
	h, err := b.BeginFrame(entities.RawInput{})
	require.NoError(t, err)

	require.NoError(t, b.Run(h, func(root ports.Surface) error {
		root.Combo(key(3, 0), "a", []string{"x"}, 0)
		root.Combo(key(3, 0), "b", []string{"y"}, 0)
		return nil
	}))

	_, err = b.EndFrame(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIdentityCollision))
	assert.Contains(t, err.Error(), "3/0")
}

func TestBackend_FrameMisuse(t *testing.T) {
	b := New()
	h, err := b.BeginFrame(entities.RawInput{})
	require.NoError(t, err)

	_, err = b.BeginFrame(entities.RawInput{})
	assert.Error(t, err)

	_, err = b.EndFrame(h)
	require.NoError(t, err)
	_, err = b.EndFrame(h)
	assert.Error(t, err)
	assert.Error(t, b.Run("bogus", func(ports.Surface) error { return nil }))
}

func TestBackend_ComboSelection(t *testing.T) {
	b := New()
	items := []string{"red", "green", "blue"}
	selected := 0
	draw := func(s ports.Surface) error {
		selected = s.Combo(key(2, 0), "color", items, selected)
		return nil
	}

	out := drawFrame(t, b, entities.RawInput{}, draw)
	assert.Contains(t, out.Text, "color:")
	assert.Contains(t, out.Text, "< red >")
	assert.Equal(t, key(2, 0), b.Focused())

	drawFrame(t, b, entities.RawInput{Keys: []string{"down", "down"}}, draw)
	assert.Equal(t, 2, selected)

	drawFrame(t, b, entities.RawInput{Keys: []string{"down"}}, draw)
	assert.Equal(t, 2, selected, "selection is clamped to the last item")

	out = drawFrame(t, b, entities.RawInput{Keys: []string{"up"}}, draw)
	assert.Equal(t, 1, selected)
	assert.Contains(t, out.Text, "< green >")

	got, ok := b.Selection(key(2, 0))
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestBackend_ComboEmpty(t *testing.T) {
	b := New()
	var selected int
	out := drawFrame(t, b, entities.RawInput{}, func(s ports.Surface) error {
		selected = s.Combo(key(2, 0), "none", nil, 4)
		return nil
	})
	assert.Equal(t, 0, selected)
	assert.Contains(t, out.Text, "<empty>")
}

func TestBackend_TextEditing(t *testing.T) {
	b := New()
	buf := entities.NewTextBuffer("héllo")
	var changed bool
	draw := func(s ports.Surface) error {
		changed = s.TextEdit(key(4, 0), buf)
		return nil
	}

	drawFrame(t, b, entities.RawInput{Text: "!"}, draw)
	assert.True(t, changed)
	assert.Equal(t, "héllo!", buf.String())

	drawFrame(t, b, entities.RawInput{Keys: []string{"home"}, Text: ">"}, draw)
	assert.Equal(t, ">héllo!", buf.String())

	drawFrame(t, b, entities.RawInput{Keys: []string{"end", "backspace", "backspace"}}, draw)
	assert.Equal(t, ">héll", buf.String())

	drawFrame(t, b, entities.RawInput{Keys: []string{"left", "left", "delete"}}, draw)
	assert.Equal(t, ">hél", buf.String())

	drawFrame(t, b, entities.RawInput{}, draw)
	assert.False(t, changed)
}

func TestBackend_TextReadOnly(t *testing.T) {
	b := New()
	buf, err := entities.TextBufferFromVar(entities.String("fixed"), true)
	require.NoError(t, err)

	var changed bool
	out := drawFrame(t, b, entities.RawInput{Text: "x", Keys: []string{"backspace"}}, func(s ports.Surface) error {
		changed = s.TextEdit(key(4, 0), buf)
		return nil
	})
	assert.False(t, changed)
	assert.Equal(t, "fixed", buf.String())
	assert.Contains(t, out.Text, "fixed")
}

func TestBackend_FocusCycle(t *testing.T) {
	b := New()
	first := entities.NewTextBuffer("")
	second := entities.NewTextBuffer("")
	draw := func(s ports.Surface) error {
		s.TextEdit(key(5, 0), first)
		s.TextEdit(key(5, 1), second)
		return nil
	}

	drawFrame(t, b, entities.RawInput{Text: "a"}, draw)
	drawFrame(t, b, entities.RawInput{Keys: []string{"tab"}, Text: "b"}, draw)
	drawFrame(t, b, entities.RawInput{Keys: []string{"tab"}, Text: "c"}, draw)
	drawFrame(t, b, entities.RawInput{Keys: []string{"shift+tab"}, Text: "d"}, draw)

	assert.Equal(t, "ac", first.String())
	assert.Equal(t, "bd", second.String())
}

func TestBackend_RetainedStateDropped(t *testing.T) {
	b := New()
	buf := entities.NewTextBuffer("abc")

	drawFrame(t, b, entities.RawInput{}, func(s ports.Surface) error {
		s.TextEdit(key(6, 0), buf)
		s.Combo(key(6, 1), "", []string{"x"}, 0)
		return nil
	})
	assert.Equal(t, 2, b.Retained())

	drawFrame(t, b, entities.RawInput{}, func(s ports.Surface) error {
		s.Combo(key(6, 1), "", []string{"x"}, 0)
		return nil
	})
	assert.Equal(t, 1, b.Retained())
	assert.Equal(t, key(6, 1), b.Focused())
}

func TestBackend_GroupAndPlot(t *testing.T) {
	b := New(WithWidth(40))
	out := drawFrame(t, b, entities.RawInput{}, func(root ports.Surface) error {
		return root.Group(key(7, 0), func(s ports.Surface) error {
			s.Label("inside")
			s.Plot(key(7, 1), [][][2]float64{{{0, 0}, {1, 1}, {2, 2}}})
			return nil
		})
	})

	assert.Contains(t, out.Text, "inside")
	assert.Contains(t, out.Text, "▁▄█")
	assert.Equal(t, []entities.IdentityKey{key(7, 0), key(7, 1)}, out.Regions)
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		points [][2]float64
		width  int
		want   string
	}{
		{name: "empty", want: ""},
		{name: "flat", points: [][2]float64{{0, 3}, {1, 3}}, width: 10, want: "▁▁"},
		{name: "ramp", points: [][2]float64{{0, 0}, {1, 7}}, width: 10, want: "▁█"},
		{name: "truncated", points: [][2]float64{{0, 9}, {1, 0}, {2, 7}}, width: 2, want: "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sparkline(tt.points, tt.width))
		})
	}
}
