package termui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

var sparks = []rune("▁▂▃▄▅▆▇█")

type surface struct {
	backend *Backend
	frame   *frame
	lines   *[]string
	root    bool
}

func (s *surface) add(line string) {
	*s.lines = append(*s.lines, line)
}

func (s *surface) Panel(region ports.Region, id entities.IdentityKey, body func(ports.Surface) error) error {
	if !s.root {
		return errors.New("panels can only be added to the root surface")
	}
	if !s.backend.claim(s.frame, id) {
		return nil
	}
	p := &panel{region: region}
	s.frame.panels = append(s.frame.panels, p)
	return body(&surface{backend: s.backend, frame: s.frame, lines: &p.lines})
}

func (s *surface) Group(id entities.IdentityKey, body func(ports.Surface) error) error {
	if !s.backend.claim(s.frame, id) {
		return nil
	}
	var lines []string
	if err := body(&surface{backend: s.backend, frame: s.frame, lines: &lines}); err != nil {
		return err
	}
	s.add(groupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return nil
}

func (s *surface) Label(text string) {
	s.add(labelStyle.Render(text))
}

func (s *surface) Combo(id entities.IdentityKey, label string, items []string, selected int) int {
	if !s.backend.claim(s.frame, id) {
		return selected
	}
	focused := s.backend.focusable(s.frame, id)
	if focused {
		for _, key := range s.frame.input.Keys {
			switch key {
			case "down", "right":
				selected++
			case "up", "left":
				selected--
			}
		}
	}
	if len(items) == 0 {
		s.add(label + ": <empty>")
		return 0
	}
	selected = min(max(selected, 0), len(items)-1)
	st, _ := s.backend.retained(id)
	st.selected = selected

	value := fmt.Sprintf("< %s >", items[selected])
	if focused {
		value = focusedStyle.Render(value)
	}
	if label != "" {
		value = label + ": " + value
	}
	s.add(value)
	return selected
}

func (s *surface) TextEdit(id entities.IdentityKey, buf *entities.TextBuffer) bool {
	if !s.backend.claim(s.frame, id) {
		return false
	}
	focused := s.backend.focusable(s.frame, id)
	st, fresh := s.backend.retained(id)
	if fresh {
		st.cursor = buf.Len()
	}
	st.cursor = min(max(st.cursor, 0), buf.Len())

	changed := false
	if focused && buf.IsMutable() {
		for _, key := range s.frame.input.Keys {
			switch key {
			case "backspace":
				if st.cursor > 0 && buf.Delete(st.cursor-1, st.cursor) == nil {
					st.cursor--
					changed = true
				}
			case "delete":
				if st.cursor < buf.Len() && buf.Delete(st.cursor, st.cursor+1) == nil {
					changed = true
				}
			case "left":
				st.cursor = max(st.cursor-1, 0)
			case "right":
				st.cursor = min(st.cursor+1, buf.Len())
			case "home":
				st.cursor = 0
			case "end":
				st.cursor = buf.Len()
			}
		}
		if n := buf.Insert(st.cursor, s.frame.input.Text); n > 0 {
			st.cursor += n
			changed = true
		}
	}

	text := buf.String()
	if focused {
		runes := []rune(text)
		text = string(runes[:st.cursor]) + "▏" + string(runes[st.cursor:])
		text = focusedStyle.Render(text)
	}
	s.add("[" + text + "]")
	return changed
}

func (s *surface) Plot(id entities.IdentityKey, lines [][][2]float64) {
	if !s.backend.claim(s.frame, id) {
		return
	}
	for _, line := range lines {
		s.add(plotStyle.Render(sparkline(line, s.backend.cfg.width)))
	}
}

// sparkline renders the y values of points, scaled to their own range.
func sparkline(points [][2]float64, width int) string {
	if len(points) == 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p[1])
		hi = math.Max(hi, p[1])
	}
	var sb strings.Builder
	for _, p := range points {
		level := 0
		if hi > lo {
			level = int((p[1] - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		sb.WriteRune(sparks[level])
	}
	return sb.String()
}
