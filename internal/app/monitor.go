package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/normkeys/internal/engine"
	"github.com/dshills/normkeys/internal/input/sequence"
	"github.com/dshills/normkeys/internal/input/tracker"
)

// Display bounds for the rolling panes.
const (
	maxRecentEvents  = 10
	maxRecentMatches = 5
	progressBarWidth = 30
)

// monitor keeps the rolling display state and draws the terminal UI.
type monitor struct {
	mu      sync.Mutex
	eng     *engine.Engine
	events  []string
	matches []string
}

func newMonitor(eng *engine.Engine) *monitor {
	return &monitor{eng: eng}
}

// recordEvent appends a normalized transition to the event pane.
func (m *monitor) recordEvent(ev tracker.NormalizedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev.String())
	if len(m.events) > maxRecentEvents {
		m.events = m.events[len(m.events)-maxRecentEvents:]
	}
}

// recordMatch appends a sequence match to the match pane.
func (m *monitor) recordMatch(match sequence.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line := fmt.Sprintf("%s (%s)", match.SequenceID, match.Type)
	m.matches = append(m.matches, line)
	if len(m.matches) > maxRecentMatches {
		m.matches = m.matches[len(m.matches)-maxRecentMatches:]
	}
}

// draw renders one frame. Runs on the capture source's loop.
func (m *monitor) draw(screen tcell.Screen, now time.Time) {
	screen.Clear()

	header := tcell.StyleDefault.Bold(true)
	normal := tcell.StyleDefault
	dim := tcell.StyleDefault.Dim(true)

	y := 0
	drawText(screen, 0, y, header, "normkeys monitor (Ctrl+C to quit)")
	y += 2

	pressed := m.eng.PressedKeys()
	names := make([]string, len(pressed))
	for i, k := range pressed {
		names[i] = k.String()
	}
	drawText(screen, 0, y, normal, "pressed:   "+strings.Join(names, " "))
	y++
	drawText(screen, 0, y, normal, "modifiers: "+m.eng.ActiveModifiers().String())
	y += 2

	y = m.drawHolds(screen, y, now, normal)

	m.mu.Lock()
	events := append([]string(nil), m.events...)
	matches := append([]string(nil), m.matches...)
	m.mu.Unlock()

	drawText(screen, 0, y, header, "events")
	y++
	for _, line := range events {
		drawText(screen, 2, y, dim, line)
		y++
	}
	y++
	drawText(screen, 0, y, header, "matches")
	y++
	for _, line := range matches {
		drawText(screen, 2, y, normal, line)
		y++
	}
}

// drawHolds renders one progress bar per registered hold definition.
func (m *monitor) drawHolds(screen tcell.Screen, y int, now time.Time, style tcell.Style) int {
	for _, d := range m.eng.Definitions() {
		if d.Type != sequence.TypeHold {
			continue
		}
		s, ok := m.eng.HoldStateAt(d.ID, now)
		if !ok || !s.IsCharging {
			drawText(screen, 0, y, style, fmt.Sprintf("%-12s [%s]", d.ID, strings.Repeat(" ", progressBarWidth)))
			y++
			continue
		}
		filled := int(s.Progress / 100 * progressBarWidth)
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled)
		label := fmt.Sprintf("%-12s [%s] %3.0f%%", d.ID, bar, s.Progress)
		if s.Glow > 0 {
			drawText(screen, 0, y, style.Bold(true), label)
		} else {
			drawText(screen, 0, y, style, label)
		}
		y++
	}
	return y + 1
}

// drawText writes a string left to right starting at (x, y).
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
