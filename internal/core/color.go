package core

// Color is a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// facePalette cycles through distinguishable colors for card faces.
var facePalette = []Color{
	ColorBrightRed,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightBlue,
	ColorBrightMagenta,
	ColorBrightCyan,
	ColorOrange,
	ColorBrightWhite,
}

// FaceColor returns the display color for a face identity.
func FaceColor(identity int) Color {
	if identity < 0 {
		return ColorDefault
	}
	return facePalette[identity%len(facePalette)]
}
