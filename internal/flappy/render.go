package flappy

import (
	"fmt"
	"math"

	"github.com/thxaman/flappy-lidar/internal/core"
)

// Visual characters for the character renderer.
const (
	BodyChar      = '●'
	ObstacleChar  = '█'
	CapUpright    = '▄'
	CapInverted   = '▀'
	GroundChar    = '═'
	SoilChar      = '░'
	RayChar       = '·'
	HitChar       = '✕'
	tiltThreshold = 8 // Degrees of tilt before the head glyph changes
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	g.Snapshot().Render(dst)
}

// Render draws the snapshot onto a character screen, scaling the world to the
// screen size.
func (s Snapshot) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	v := newViewport(dst.Width(), dst.Height())

	groundRow := v.row(GroundY)
	dst.DrawHLine(0, groundRow, dst.Width(), GroundChar, core.ColorOrange)
	for y := groundRow + 1; y < dst.Height(); y++ {
		dst.DrawHLine(0, y, dst.Width(), SoilChar, core.ColorGray)
	}

	switch s.State {
	case Start:
		s.drawBody(dst, v)
		title := "FLAPPY LIDAR"
		dst.DrawTextColor((dst.Width()-len(title))/2, core.Max(1, groundRow/4), title, core.ColorBrightYellow)
		drawPrompt(dst, groundRow, "Press SPACE to Play")

	case Playing:
		for _, o := range s.Obstacles {
			drawObstacle(dst, v, o, groundRow)
		}
		s.drawScan(dst, v)
		s.drawBody(dst, v)
		dst.DrawText(2, 0, fmt.Sprintf(" Score: %d ", s.Score))

	case GameOver:
		for _, o := range s.Obstacles {
			drawObstacle(dst, v, o, groundRow)
		}
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Your Score Is: %d", s.Score),
			"Press SPACE to Play Again")
	}
}

// viewport maps world coordinates to screen cells.
type viewport struct {
	sx, sy float64
	w, h   int
}

func newViewport(w, h int) viewport {
	return viewport{
		sx: float64(w) / ScreenWidth,
		sy: float64(h) / ScreenHeight,
		w:  w,
		h:  h,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return int(math.Floor(y * v.sy))
}

func (v viewport) cell(p core.Vec) (int, int) {
	return v.col(p.X), v.row(p.Y)
}

// drawObstacle fills the cells covered by an obstacle above the ground row,
// capping the end that faces the gap.
func drawObstacle(dst *core.Screen, v viewport, o Obstacle, groundRow int) {
	x0, y0 := v.col(o.Rect.X), v.row(o.Rect.Y)
	x1, y1 := v.col(o.Rect.Right()), v.row(o.Rect.Bottom())
	if x1 == x0 {
		x1++
	}
	y0 = core.Max(y0, 0)
	y1 = core.Min(y1, groundRow)

	for y := y0; y < y1; y++ {
		ch := ObstacleChar
		switch {
		case o.Orientation == Upright && y == y0:
			ch = CapUpright
		case o.Orientation == Inverted && y == y1-1:
			ch = CapInverted
		}
		dst.DrawHLine(x0, y, x1-x0, ch, core.ColorGreen)
	}
}

// drawScan draws each ray up to its hit point and marks the hit.
func (s Snapshot) drawScan(dst *core.Screen, v viewport) {
	ox, oy := v.cell(s.Body.Center)
	for _, sm := range s.Scan {
		if !sm.Hit.IsFinite() {
			continue
		}
		hx, hy := v.cell(sm.Hit)
		dst.DrawLine(ox, oy, hx, hy, RayChar, core.ColorBrightGreen)
		dst.SetColor(hx, hy, HitChar, core.ColorBrightRed)
	}
}

// drawBody fills the body's bounding cells and puts a head glyph on the
// leading edge that follows the display tilt.
func (s Snapshot) drawBody(dst *core.Screen, v viewport) {
	b := s.Body.Bounds
	x0, y0 := v.col(b.X), v.row(b.Y)
	x1, y1 := core.Max(v.col(b.Right()), x0+1), core.Max(v.row(b.Bottom()), y0+1)
	for y := y0; y < y1; y++ {
		dst.DrawHLine(x0, y, x1-x0, BodyChar, core.ColorYellow)
	}
	_, cy := v.cell(s.Body.Center)
	dst.SetColor(x1-1, core.Clamp(cy, y0, y1-1), headGlyph(s.Body.Angle), core.ColorBrightYellow)
}

func headGlyph(angle float64) rune {
	switch {
	case angle > tiltThreshold:
		return '▲'
	case angle < -tiltThreshold:
		return '▼'
	default:
		return '▶'
	}
}

// drawPrompt writes a line of text centred a little above the ground.
func drawPrompt(dst *core.Screen, groundRow int, text string) {
	y := core.Max(groundRow-2, 0)
	dst.DrawTextColor((dst.Width()-len([]rune(text)))/2, y, text, core.ColorWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len(title)
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := 4 + len(lines)
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawTextColor(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightRed)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+i, l)
	}
}
