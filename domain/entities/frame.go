package entities

import "time"

// RawInput is the per-frame input handed to an immediate-mode backend.
type RawInput struct {
	// Text is typed text delivered to the focused text field.
	Text string
	// Keys are named key presses (e.g. "backspace", "down").
	Keys  []string
	Tick  uint64
	Delta time.Duration
}

// FrameOutput is what a backend produced for one frame.
type FrameOutput struct {
	// Text is the rendered frame.
	Text string
	// Regions lists the identity keys drawn this frame, in draw order.
	Regions []IdentityKey
}
