package core

// Color represents a foreground color for a screen cell.
// Values map onto ANSI 256-color codes in the terminal front-end and onto RGB
// values in the window front-end.
type Color uint8

// Palette used by the simulation's character renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// RGB returns the colour's components for pixel-based front-ends.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case ColorRed:
		return 205, 49, 49
	case ColorGreen:
		return 84, 168, 52
	case ColorYellow:
		return 229, 192, 36
	case ColorCyan:
		return 122, 165, 202
	case ColorWhite:
		return 229, 229, 229
	case ColorBrightRed:
		return 255, 0, 0
	case ColorBrightGreen:
		return 0, 255, 0
	case ColorBrightYellow:
		return 255, 235, 90
	case ColorOrange:
		return 222, 150, 80
	case ColorGray:
		return 140, 140, 140
	default:
		return 0, 0, 0
	}
}
