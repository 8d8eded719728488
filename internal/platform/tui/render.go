package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/core"
)

// ansiCodes maps core.Color to terminal color codes.
var ansiCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// colorStyles is built from ansiCodes; ColorDefault renders unstyled.
var colorStyles = func() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
	}
	for c, code := range ansiCodes {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of one color are rendered as a single run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		renderRow(&sb, s, y)
	}
	return sb.String()
}

func renderRow(sb *strings.Builder, s *core.Screen, y int) {
	var run strings.Builder
	runColor := s.GetCell(0, y).Color

	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(styleFor(runColor).Render(run.String()))
		run.Reset()
	}

	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if cell.Color != runColor {
			flush()
			runColor = cell.Color
		}
		run.WriteRune(cell.Rune)
	}
	flush()
}
