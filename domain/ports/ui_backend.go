package ports

import "github.com/reglet-dev/shards-sdk/go/domain/entities"

// FrameHandle identifies a frame between BeginFrame and EndFrame.
type FrameHandle any

// UIBackend is an immediate-mode visual subsystem.
//
// A frame is driven as BeginFrame, one or more Run calls, then EndFrame.
// Retained state (scroll offsets, focus, cursors) is keyed by the
// IdentityKey passed to Surface calls.
type UIBackend interface {
	BeginFrame(input entities.RawInput) (FrameHandle, error)
	Run(frame FrameHandle, body func(root Surface) error) error
	EndFrame(frame FrameHandle) (entities.FrameOutput, error)
}

// Region names the placement of a top-level panel.
type Region uint8

const (
	RegionTop Region = iota
	RegionLeft
	RegionRight
	RegionBottom
	// RegionCenter takes whatever area the other regions left.
	RegionCenter
)

func (r Region) String() string {
	switch r {
	case RegionTop:
		return "top"
	case RegionLeft:
		return "left"
	case RegionRight:
		return "right"
	case RegionBottom:
		return "bottom"
	case RegionCenter:
		return "center"
	}
	return "unknown"
}

// Surface is the drawing target handed to shards inside a frame.
type Surface interface {
	// Panel adds a top-level panel. Only valid on the root surface.
	Panel(region Region, id entities.IdentityKey, body func(Surface) error) error
	// Group nests a visually grouped child surface.
	Group(id entities.IdentityKey, body func(Surface) error) error
	Label(text string)
	// Combo shows a selector over items and returns the selected index.
	Combo(id entities.IdentityKey, label string, items []string, selected int) int
	// TextEdit edits buf in place and reports whether it changed.
	TextEdit(id entities.IdentityKey, buf *entities.TextBuffer) bool
	// Plot draws line series, each a list of (x, y) points.
	Plot(id entities.IdentityKey, lines [][][2]float64)
}
