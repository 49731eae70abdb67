package termui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// ErrIdentityCollision is returned by EndFrame when one identity key was
// drawn twice in a frame.
var ErrIdentityCollision = errors.New("identity collision")

type config struct {
	width     int
	sideWidth int
}

func defaultConfig() config {
	return config{
		width:     100,
		sideWidth: 24,
	}
}

// Option configures a Backend.
type Option func(*config)

// WithWidth sets the total frame width in cells.
func WithWidth(width int) Option {
	return func(c *config) {
		if width > 0 {
			c.width = width
		}
	}
}

// WithSideWidth sets the width of the left and right panels.
func WithSideWidth(width int) Option {
	return func(c *config) {
		if width > 0 {
			c.sideWidth = width
		}
	}
}

var _ ports.UIBackend = (*Backend)(nil)

// widgetState is retained across frames for one identity key.
type widgetState struct {
	cursor   int
	selected int
}

// Backend renders frames with lipgloss. It is not safe for concurrent use.
type Backend struct {
	cfg        config
	state      map[entities.IdentityKey]*widgetState
	focusables []entities.IdentityKey
	focused    entities.IdentityKey
	frame      *frame
	frames     uint64
}

// New creates a terminal backend.
func New(opts ...Option) *Backend {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Backend{
		cfg:   cfg,
		state: make(map[entities.IdentityKey]*widgetState),
	}
}

type panel struct {
	region ports.Region
	lines  []string
}

type frame struct {
	input      entities.RawInput
	panels     []*panel
	loose      []string
	keys       []entities.IdentityKey
	seen       map[entities.IdentityKey]bool
	focusables []entities.IdentityKey
	err        error
	ended      bool
}

// Focused returns the key of the focused widget, or the zero key.
func (b *Backend) Focused() entities.IdentityKey { return b.focused }

// Selection returns the last selection of the combo drawn with key.
func (b *Backend) Selection(key entities.IdentityKey) (int, bool) {
	st, ok := b.state[key]
	if !ok {
		return 0, false
	}
	return st.selected, true
}

// Frames returns the number of frames ended.
func (b *Backend) Frames() uint64 { return b.frames }

// Retained returns the number of identity keys with retained state.
func (b *Backend) Retained() int { return len(b.state) }

func (b *Backend) BeginFrame(input entities.RawInput) (ports.FrameHandle, error) {
	if b.frame != nil && !b.frame.ended {
		return nil, errors.New("frame already in progress")
	}
	for _, key := range input.Keys {
		switch key {
		case "tab":
			b.moveFocus(1)
		case "shift+tab":
			b.moveFocus(-1)
		}
	}
	b.frame = &frame{input: input, seen: make(map[entities.IdentityKey]bool)}
	return b.frame, nil
}

func (b *Backend) Run(handle ports.FrameHandle, body func(root ports.Surface) error) error {
	f, err := b.current(handle)
	if err != nil {
		return err
	}
	return body(&surface{backend: b, frame: f, lines: &f.loose, root: true})
}

func (b *Backend) EndFrame(handle ports.FrameHandle) (entities.FrameOutput, error) {
	f, err := b.current(handle)
	if err != nil {
		return entities.FrameOutput{}, err
	}
	f.ended = true
	b.frames++
	if f.err != nil {
		return entities.FrameOutput{}, f.err
	}

	// drop state of widgets that were not drawn
	for key := range b.state {
		if !f.seen[key] {
			delete(b.state, key)
		}
	}
	b.focusables = f.focusables
	if !b.focused.IsZero() && !f.seen[b.focused] {
		b.focused = entities.IdentityKey{}
		if len(f.focusables) > 0 {
			b.focused = f.focusables[0]
		}
	}

	return entities.FrameOutput{Text: b.layout(f), Regions: f.keys}, nil
}

func (b *Backend) current(handle ports.FrameHandle) (*frame, error) {
	f, ok := handle.(*frame)
	if !ok || f != b.frame || f.ended {
		return nil, errors.New("unknown frame")
	}
	return f, nil
}

func (b *Backend) moveFocus(step int) {
	n := len(b.focusables)
	if n == 0 {
		return
	}
	idx := -1
	for i, key := range b.focusables {
		if key == b.focused {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.focused = b.focusables[0]
		return
	}
	b.focused = b.focusables[((idx+step)%n+n)%n]
}

// claim registers key as drawn in f. It reports false on a collision.
func (b *Backend) claim(f *frame, key entities.IdentityKey) bool {
	if f.seen[key] {
		if f.err == nil {
			f.err = fmt.Errorf("%w: %s drawn twice in one frame", ErrIdentityCollision, key)
		}
		return false
	}
	f.seen[key] = true
	f.keys = append(f.keys, key)
	return true
}

func (b *Backend) focusable(f *frame, key entities.IdentityKey) bool {
	f.focusables = append(f.focusables, key)
	if b.focused.IsZero() {
		b.focused = key
	}
	return b.focused == key
}

// retained returns the state of key and whether it was just created.
func (b *Backend) retained(key entities.IdentityKey) (*widgetState, bool) {
	st, ok := b.state[key]
	if !ok {
		st = &widgetState{}
		b.state[key] = st
	}
	return st, !ok
}

func (b *Backend) layout(f *frame) string {
	centerWidth := b.cfg.width
	var top, bottom, left, right, center []string
	for _, p := range f.panels {
		switch p.region {
		case ports.RegionLeft, ports.RegionRight:
			centerWidth -= b.cfg.sideWidth
		}
	}
	for _, p := range f.panels {
		switch p.region {
		case ports.RegionTop:
			top = append(top, render(p.lines, b.cfg.width))
		case ports.RegionBottom:
			bottom = append(bottom, render(p.lines, b.cfg.width))
		case ports.RegionLeft:
			left = append(left, render(p.lines, b.cfg.sideWidth))
		case ports.RegionRight:
			right = append(right, render(p.lines, b.cfg.sideWidth))
		case ports.RegionCenter:
			center = append(center, render(p.lines, centerWidth))
		}
	}

	var middle []string
	middle = append(middle, left...)
	middle = append(middle, center...)
	middle = append(middle, right...)

	var rows []string
	rows = append(rows, f.loose...)
	rows = append(rows, top...)
	if len(middle) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, middle...))
	}
	rows = append(rows, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func render(lines []string, width int) string {
	// the border takes two cells
	return panelStyle.Width(max(width-2, 1)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
