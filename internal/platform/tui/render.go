package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thxaman/flappy-lidar/internal/core"
)

// paletteSize covers every core.Color value. Values outside the palette
// render unstyled.
const paletteSize = 256

// styles holds one lipgloss style per palette colour. Colours are given as
// RGB hex so the terminal and window front-ends agree; lipgloss downsamples
// them to what the terminal supports.
var styles = buildStyles()

func buildStyles() [paletteSize]lipgloss.Style {
	var s [paletteSize]lipgloss.Style
	for i := range s {
		c := core.Color(i)
		if c == core.ColorDefault || c > core.ColorGray {
			s[i] = lipgloss.NewStyle()
			continue
		}
		s[i] = lipgloss.NewStyle().Foreground(hexColor(c))
	}
	return s
}

// hexColor converts a palette colour to a lipgloss colour.
func hexColor(c core.Color) lipgloss.Color {
	r, g, b := c.RGB()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// RenderScreen converts a Screen buffer to a styled string for display. Each
// run of same-coloured cells on a row is styled once.
func RenderScreen(s *core.Screen) string {
	var sb, run strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	flush := func(c core.Color) {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(styles[c].Render(run.String()))
		run.Reset()
	}

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		current := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != current {
				flush(current)
				current = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush(current)
	}
	return sb.String()
}
