package shardstest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// FakeBackend is an in-memory ports.UIBackend. It records every surface call
// of the current frame as a line of text and lets tests script widget
// responses by identity key.
type FakeBackend struct {
	// Selections maps a combo key to the index it reports as selected.
	Selections map[entities.IdentityKey]int
	// Typing maps a text field key to text appended on the next frame.
	Typing map[entities.IdentityKey]string
	// Lines holds the last lines plotted per key.
	Lines map[entities.IdentityKey][][][2]float64
	// Inputs lists the raw input of every frame begun.
	Inputs []entities.RawInput
	// BeginErr fails BeginFrame when set.
	BeginErr error

	frame  *fakeFrame
	frames int
}

type fakeFrame struct {
	ops  []string
	keys []entities.IdentityKey
	id   int
	done bool
}

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Selections: make(map[entities.IdentityKey]int),
		Typing:     make(map[entities.IdentityKey]string),
		Lines:      make(map[entities.IdentityKey][][][2]float64),
	}
}

// Frames returns the number of frames ended.
func (b *FakeBackend) Frames() int { return b.frames }

func (b *FakeBackend) BeginFrame(input entities.RawInput) (ports.FrameHandle, error) {
	if b.BeginErr != nil {
		return nil, b.BeginErr
	}
	if b.frame != nil && !b.frame.done {
		return nil, errors.New("frame already in progress")
	}
	b.Inputs = append(b.Inputs, input)
	b.frame = &fakeFrame{id: len(b.Inputs)}
	return b.frame, nil
}

func (b *FakeBackend) Run(frame ports.FrameHandle, body func(root ports.Surface) error) error {
	f, err := b.current(frame)
	if err != nil {
		return err
	}
	return body(&fakeSurface{backend: b, frame: f, root: true})
}

func (b *FakeBackend) EndFrame(frame ports.FrameHandle) (entities.FrameOutput, error) {
	f, err := b.current(frame)
	if err != nil {
		return entities.FrameOutput{}, err
	}
	f.done = true
	b.frames++
	return entities.FrameOutput{Text: strings.Join(f.ops, "\n"), Regions: f.keys}, nil
}

func (b *FakeBackend) current(frame ports.FrameHandle) (*fakeFrame, error) {
	f, ok := frame.(*fakeFrame)
	if !ok || f != b.frame || f.done {
		return nil, errors.New("unknown frame")
	}
	return f, nil
}

type fakeSurface struct {
	backend *FakeBackend
	frame   *fakeFrame
	prefix  string
	root    bool
}

func (s *fakeSurface) record(format string, args ...any) {
	s.frame.ops = append(s.frame.ops, s.prefix+fmt.Sprintf(format, args...))
}

func (s *fakeSurface) Panel(region ports.Region, id entities.IdentityKey, body func(ports.Surface) error) error {
	if !s.root {
		return errors.New("panel outside the root surface")
	}
	s.record("panel %s %s", region, id)
	s.frame.keys = append(s.frame.keys, id)
	return body(&fakeSurface{backend: s.backend, frame: s.frame, prefix: s.prefix + "  "})
}

func (s *fakeSurface) Group(id entities.IdentityKey, body func(ports.Surface) error) error {
	s.record("group %s", id)
	s.frame.keys = append(s.frame.keys, id)
	return body(&fakeSurface{backend: s.backend, frame: s.frame, prefix: s.prefix + "  "})
}

func (s *fakeSurface) Label(text string) {
	s.record("label %s", text)
}

func (s *fakeSurface) Combo(id entities.IdentityKey, label string, items []string, selected int) int {
	if sel, ok := s.backend.Selections[id]; ok {
		selected = sel
	}
	s.record("combo %s %q %v %d", id, label, items, selected)
	return selected
}

func (s *fakeSurface) TextEdit(id entities.IdentityKey, buf *entities.TextBuffer) bool {
	typed, ok := s.backend.Typing[id]
	changed := false
	if ok {
		delete(s.backend.Typing, id)
		changed = buf.Insert(buf.Len(), typed) > 0
	}
	s.record("text %s %q", id, buf.String())
	return changed
}

func (s *fakeSurface) Plot(id entities.IdentityKey, lines [][][2]float64) {
	s.backend.Lines[id] = lines
	s.record("plot %s %d", id, len(lines))
}
