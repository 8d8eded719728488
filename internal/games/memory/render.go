package memory

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/games/memory/engine"
)

const (
	cardWidth  = 5 // Box width including borders
	cardHeight = 3 // Box height including borders
	cardGap    = 1 // Columns between cards

	hudHeight    = 3
	footerHeight = 2

	faceDown = '░'
)

// resize records the screen size and checks that the grid fits.
func (g *Game) resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.session == nil {
		return
	}
	gridW, gridH := gridExtent(g.session.Rows(), g.session.Cols())
	g.tooSmall = w < gridW || h < hudHeight+gridH+footerHeight
}

func gridExtent(rows, cols int) (int, int) {
	return cols*cardWidth + (cols-1)*cardGap, rows * cardHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.resize(dst.Width(), dst.Height())
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	rows, cols := g.session.Rows(), g.session.Cols()
	gridW, gridH := gridExtent(rows, cols)
	gridX := (g.screenW - gridW) / 2
	gridY := hudHeight

	g.renderHUD(dst, gridX, gridW)
	g.renderGrid(dst, gridX, gridY)

	if g.flash != "" {
		dst.DrawTextCentered(gridY+gridH+1, g.flash, g.flashColor)
	}

	g.renderOverlays(dst, gridX+gridW/2, gridY+gridH/2)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorBrightRed)

	gridW, gridH := gridExtent(g.session.Rows(), g.session.Cols())
	hint := fmt.Sprintf("Need %dx%d, please resize terminal", gridW, hudHeight+gridH+footerHeight)
	dst.DrawTextCentered(y+1, hint, core.ColorGray)
}

// renderHUD draws the title, score, combo and progress.
func (g *Game) renderHUD(dst *core.Screen, gridX, gridW int) {
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightWhite)

	dst.DrawTextColor(gridX, 1, fmt.Sprintf("Score: %d", g.session.Score()), core.ColorBrightYellow)

	progress := fmt.Sprintf("%d/%d", matchedCount(g.session.Cards()), g.session.Rows()*g.session.Cols())
	dst.DrawTextCentered(1, progress, core.ColorGray)

	combo := fmt.Sprintf("Combo x%d", g.session.Combo())
	x := gridX + gridW - utf8.RuneCountInString(combo)
	if x < gridX {
		x = gridX
	}
	c := core.ColorGray
	if g.session.Combo() > 1 {
		c = core.ColorOrange
	}
	dst.DrawTextColor(x, 1, combo, c)
}

func matchedCount(cards []engine.Card) int {
	n := 0
	for _, c := range cards {
		if c.Matched() {
			n++
		}
	}
	return n
}

// renderGrid draws every card as a small box.
func (g *Game) renderGrid(dst *core.Screen, gridX, gridY int) {
	cols := g.session.Cols()
	for i, card := range g.session.Cards() {
		r, c := i/cols, i%cols
		box := core.NewRect(gridX+c*(cardWidth+cardGap), gridY+r*cardHeight, cardWidth, cardHeight)
		g.renderCard(dst, box, card, i == g.cursor)
	}
}

func (g *Game) renderCard(dst *core.Screen, box core.Rect, card engine.Card, selected bool) {
	style := core.BoxLight
	border := core.ColorWhite
	switch {
	case selected:
		style = core.BoxHeavy
		border = core.ColorBrightYellow
	case card.Matched():
		border = core.ColorGray
	}
	dst.DrawBox(box, style, border)

	cx, cy := box.Center()
	if !card.Revealed() {
		dst.DrawRect(core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2), faceDown, core.ColorBlue)
		return
	}

	face := core.FaceColor(card.Identity)
	if card.Matched() {
		face = core.ColorGray
	}
	dst.DrawTextColor(cx, cy, g.cfg.Symbol(card.Identity), face)
}

// renderOverlays draws pause and game over boxes.
func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	if g.paused {
		drawOverlay(dst, centerX, centerY, core.ColorBrightWhite, "PAUSED", "Press P to resume")
		return
	}

	if g.session.State() == engine.StateComplete {
		drawOverlay(dst, centerX, centerY, core.ColorBrightGreen,
			"ALL CLEAR!", fmt.Sprintf("Final score: %d", g.session.Score()), "Press R to play again")
	}
}

// drawOverlay draws a centered box with one line of text per argument.
func drawOverlay(dst *core.Screen, centerX, centerY int, c core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.BoxDouble, c)

	for i, line := range lines {
		x := centerX - utf8.RuneCountInString(line)/2
		dst.DrawTextColor(x, box.Y+1+i, line, c)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space: Flip | R: New game | P: Pause | Q: Save & quit"
}
