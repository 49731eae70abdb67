// Package termui implements ports.UIBackend on a terminal using lipgloss.
//
// The backend is immediate-mode: shards redraw everything each frame and the
// backend renders the frame to a string. Focus, text cursors and combo
// selections are retained between frames by identity key. Keys are expected
// to be unique within a frame; drawing one key twice fails the frame.
//
// Focus starts on the first focusable widget and moves with "tab" and
// "shift+tab". A focused combo changes selection with "up" and "down"; a
// focused text field receives typed text, "backspace", "left", "right",
// "home" and "end".
package termui
