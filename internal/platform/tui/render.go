package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tracksnake/internal/core"
)

type colorPair struct {
	fg, bg core.Color
}

// styleCache holds one lipgloss style per fg/bg combination. Artwork tints
// make the set open-ended, so styles are built lazily.
var styleCache = struct {
	sync.Mutex
	m map[colorPair]lipgloss.Style
}{m: make(map[colorPair]lipgloss.Style)}

func styleFor(p colorPair) lipgloss.Style {
	styleCache.Lock()
	defer styleCache.Unlock()

	if s, ok := styleCache.m[p]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if p.fg != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(p.fg))
	}
	if p.bg != core.ColorDefault {
		s = s.Background(lipgloss.Color(p.bg))
	}
	styleCache.m[p] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := colorPair{cell.Fg, cell.Bg}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (colorPair{cell.Fg, cell.Bg}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (colorPair{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
