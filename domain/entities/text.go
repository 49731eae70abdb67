package entities

import "fmt"

// TextBuffer is an owned, growable text value edited by codepoint index.
// It converts to and from Var only at the boundary.
type TextBuffer struct {
	runes    []rune
	readOnly bool
}

// NewTextBuffer creates an editable buffer holding s.
func NewTextBuffer(s string) *TextBuffer {
	return &TextBuffer{runes: []rune(s)}
}

// TextBufferFromVar loads a String or None value. readOnly buffers ignore edits.
func TextBufferFromVar(v Var, readOnly bool) (*TextBuffer, error) {
	s, err := v.AsString()
	if err != nil {
		return nil, err
	}
	return &TextBuffer{runes: []rune(s), readOnly: readOnly}, nil
}

// IsMutable reports whether edits are applied.
func (b *TextBuffer) IsMutable() bool { return !b.readOnly }

// Len returns the length in codepoints.
func (b *TextBuffer) Len() int { return len(b.runes) }

// Insert inserts text at codepoint index at and returns the number of
// codepoints inserted. Indices past the end append.
func (b *TextBuffer) Insert(at int, text string) int {
	if b.readOnly || text == "" {
		return 0
	}
	if at < 0 {
		at = 0
	}
	if at > len(b.runes) {
		at = len(b.runes)
	}
	ins := []rune(text)
	out := make([]rune, 0, len(b.runes)+len(ins))
	out = append(out, b.runes[:at]...)
	out = append(out, ins...)
	out = append(out, b.runes[at:]...)
	b.runes = out
	return len(ins)
}

// Delete removes the codepoints in [start, end).
func (b *TextBuffer) Delete(start, end int) error {
	if start > end {
		return fmt.Errorf("invalid range [%d, %d)", start, end)
	}
	if b.readOnly || start == end {
		return nil
	}
	if start < 0 || end > len(b.runes) {
		return fmt.Errorf("range [%d, %d) out of bounds for length %d", start, end, len(b.runes))
	}
	b.runes = append(b.runes[:start], b.runes[end:]...)
	return nil
}

func (b *TextBuffer) String() string { return string(b.runes) }

// Var converts the buffer back into a String value.
func (b *TextBuffer) Var() Var { return String(string(b.runes)) }
