package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// inputQueue collects key presses between two frames.
type inputQueue struct {
	pending entities.RawInput
	delta   time.Duration
}

// push records one key press. Printable keys become text.
func (q *inputQueue) push(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyRunes && !msg.Alt:
		q.pending.Text += string(msg.Runes)
	case msg.Type == tea.KeySpace:
		q.pending.Text += " "
	default:
		q.pending.Keys = append(q.pending.Keys, msg.String())
	}
}

// take returns and clears the pending input. It is a gui.InputSource.
func (q *inputQueue) take(tick uint64) entities.RawInput {
	in := q.pending
	in.Tick = tick
	in.Delta = q.delta
	q.pending = entities.RawInput{}
	return in
}
