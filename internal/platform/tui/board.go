package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tracksnake/internal/ambient"
	"github.com/vovakirdan/tracksnake/internal/core"
	"github.com/vovakirdan/tracksnake/internal/snake"
)

// Board layout. Each grid cell is two terminal columns wide so that cells
// look square.
const (
	cellW     = 2
	boardW    = snake.GridSize*cellW + 2
	boardH    = snake.GridSize + 2
	hudRow    = 0
	boardTop  = 1
	statusRow = boardTop + boardH
	screenW   = boardW
	screenH   = boardH + 2
)

// hudInfo is the text shown around the board.
type hudInfo struct {
	Track       string
	Artist      string
	DurationMs  int
	Playlist    string
	Status      string
	StatusAlert bool
}

// tintFunc returns the sampled color of an artwork reference, if known.
type tintFunc func(ref string) (ambient.RGB, bool)

// boardRect is the bordered play area on the screen.
func boardRect() core.Rect {
	return core.NewRect(0, boardTop, boardW, boardH)
}

// cellOrigin returns the screen position of the left column of a grid cell.
func cellOrigin(c snake.Cell) (int, int) {
	return 1 + c.X*cellW, boardTop + 1 + c.Y
}

// renderBoard draws a snapshot with its HUD into dst.
func renderBoard(dst *core.Screen, snap snake.Snapshot, hud hudInfo, tint tintFunc) {
	dst.Clear()

	bg := core.Color(snap.Ambient.Hex())
	text := core.ColorText
	if snap.Ambient.IsLight() {
		text = "#121212"
	}

	renderHUD(dst, snap, hud)

	// Play area
	r := boardRect()
	dst.FillRect(r.Inset(1), bg)
	dst.DrawBox(r, core.ColorBorder)

	// Food
	food := snap.Food
	foodColor := core.ColorFood
	if c, ok := tintOf(tint, food.Artwork); ok {
		foodColor = c
	}
	fx, fy := cellOrigin(food.Cell)
	dst.SetCell(fx, fy, core.Cell{Rune: '◖', Fg: foodColor, Bg: bg})
	dst.SetCell(fx+1, fy, core.Cell{Rune: '◗', Fg: foodColor, Bg: bg})

	// Snake, tail first so the head wins on overlap
	for i := len(snap.Segments) - 1; i >= 0; i-- {
		seg := snap.Segments[i]
		segColor := core.ColorSnake
		if c, ok := tintOf(tint, seg.Artwork); ok {
			segColor = c
		}
		x, y := cellOrigin(seg.Cell)
		if i == 0 {
			l, rr := headRunes(seg.Facing)
			dst.SetCell(x, y, core.Cell{Rune: l, Fg: core.ColorHead, Bg: segColor})
			dst.SetCell(x+1, y, core.Cell{Rune: rr, Fg: core.ColorHead, Bg: segColor})
			continue
		}
		dst.SetCell(x, y, core.Cell{Rune: ' ', Bg: segColor})
		dst.SetCell(x+1, y, core.Cell{Rune: ' ', Bg: segColor})
	}

	if snap.GameOver() {
		inner := r.Inset(1)
		mid := inner.Y + inner.H/2
		dst.DrawTextCentered(inner, mid-1, " GAME OVER ", core.ColorAlert)
		dst.DrawTextCentered(inner, mid+1, fmt.Sprintf(" Score: %d ", snap.Score), text)
	}

	// Status line
	if hud.Status != "" {
		fg := core.ColorDim
		if hud.StatusAlert {
			fg = core.ColorAlert
		}
		dst.DrawText(0, statusRow, truncate(hud.Status, screenW), fg)
	}
}

// renderHUD draws the now-playing line and the score.
func renderHUD(dst *core.Screen, snap snake.Snapshot, hud hudInfo) {
	score := fmt.Sprintf("Score %d", snap.Score)

	var left string
	switch {
	case hud.Track != "" && hud.Artist != "":
		left = fmt.Sprintf("♫ %s - %s", hud.Track, hud.Artist)
	case hud.Track != "":
		left = "♫ " + hud.Track
	case hud.Playlist != "":
		left = "♫ " + hud.Playlist
	default:
		left = "♫ nothing playing"
	}
	if hud.DurationMs > 0 {
		left += " (" + snake.FormatDuration(hud.DurationMs) + ")"
	}

	room := screenW - len([]rune(score)) - 1
	dst.DrawText(0, hudRow, truncate(left, room), core.ColorText)
	dst.DrawText(screenW-len([]rune(score)), hudRow, score, core.ColorSnake)
}

// renderTooSmall draws the resize hint.
func renderTooSmall(dst *core.Screen, width, height int) {
	dst.Clear()
	all := core.NewRect(0, 0, dst.Width(), dst.Height())
	dst.DrawTextCentered(all, dst.Height()/2-1, "Window too small", core.ColorAlert)
	dst.DrawTextCentered(all, dst.Height()/2+1, fmt.Sprintf("%dx%d, need %dx%d", width, height, screenW, screenH), core.ColorDim)
}

func headRunes(d snake.Direction) (rune, rune) {
	switch d {
	case snake.DirUp:
		return '▀', '▀'
	case snake.DirDown:
		return '▄', '▄'
	case snake.DirLeft:
		return '●', ' '
	default:
		return ' ', '●'
	}
}

func tintOf(tint tintFunc, ref string) (core.Color, bool) {
	if tint == nil || ref == "" {
		return "", false
	}
	c, ok := tint(ref)
	if !ok {
		return "", false
	}
	return core.Color(c.Hex()), true
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}
