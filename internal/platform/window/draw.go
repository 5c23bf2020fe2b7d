package window

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// Glyph size of ebitenutil's debug font.
const (
	charW = 6
	charH = 16
)

const capHeight = 12 // Height of the darker band on an obstacle's open end

var (
	skyColor    = rgba(core.ColorCyan)
	groundColor = rgba(core.ColorOrange)
	soilColor   = rgba(core.ColorGray)
	pipeColor   = rgba(core.ColorGreen)
	capColor    = color.RGBA{R: 58, G: 120, B: 36, A: 255}
	bodyColor   = rgba(core.ColorYellow)
	rayColor    = rgba(core.ColorBrightGreen)
	hitColor    = rgba(core.ColorBrightRed)
	panelColor  = color.RGBA{A: 160}
)

// rgba converts a palette colour to an opaque RGBA value.
func rgba(c core.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawSnapshot(dst *ebiten.Image, s flappy.Snapshot) {
	dst.Fill(skyColor)

	for _, o := range s.Obstacles {
		drawObstacle(dst, o)
	}

	vector.DrawFilledRect(dst, 0, flappy.GroundY, flappy.ScreenWidth, 4, groundColor, false)
	vector.DrawFilledRect(dst, 0, flappy.GroundY+4, flappy.ScreenWidth, flappy.ScreenHeight-flappy.GroundY-4, soilColor, false)

	switch s.State {
	case flappy.Start:
		drawBody(dst, s.Body)
		drawLines(dst, "FLAPPY LIDAR", "", "Press SPACE to Play")

	case flappy.Playing:
		drawScan(dst, s.Body.Center, s.Scan)
		drawBody(dst, s.Body)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Score: %d", s.Score), 10, 10)

	case flappy.GameOver:
		drawLines(dst, "GAME OVER", fmt.Sprintf("Your Score Is: %d", s.Score), "", "Press SPACE to Play Again")
	}
}

func drawObstacle(dst *ebiten.Image, o flappy.Obstacle) {
	r := o.Rect
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), pipeColor, false)

	capY := r.Y
	if o.Orientation == flappy.Inverted {
		capY = r.Bottom() - capHeight
	}
	vector.DrawFilledRect(dst, float32(r.X)-2, float32(capY), float32(r.W)+4, capHeight, capColor, false)
}

var bodySprite *ebiten.Image

// sprite returns the body image, built once from the collision mask so the
// drawn shape matches what collides.
func sprite() *ebiten.Image {
	if bodySprite != nil {
		return bodySprite
	}
	m := core.EllipseMask(flappy.BodyWidth, flappy.BodyHeight)
	w, h := m.Size()
	img := ebiten.NewImage(w, h)
	img.WritePixels(maskPixels(m, bodyColor))

	// Eye on the leading side.
	ex, ey := float32(w)/2+7, float32(h)/2-4
	vector.DrawFilledCircle(img, ex, ey, 4, color.White, true)
	vector.DrawFilledCircle(img, ex+1, ey, 2, color.Black, true)

	bodySprite = img
	return img
}

// maskPixels returns RGBA pixel data with the set pixels of m in c and the
// rest transparent.
func maskPixels(m *core.Mask, c color.RGBA) []byte {
	w, h := m.Size()
	pix := make([]byte, 4*w*h)
	for j := range h {
		for i := range w {
			if !m.Get(i, j) {
				continue
			}
			o := 4 * (j*w + i)
			pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return pix
}

// drawBody draws the body sprite tilted by the display angle.
func drawBody(dst *ebiten.Image, b flappy.BodyView) {
	img := sprite()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Rotate(-b.Angle * math.Pi / 180)
	op.GeoM.Translate(b.Center.X, b.Center.Y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// drawScan draws every ray to its hit point with the distance beside it.
func drawScan(dst *ebiten.Image, origin core.Vec, scan []lidar.Sample) {
	for _, sm := range scan {
		if !sm.Hit.IsFinite() {
			continue
		}
		vector.StrokeLine(dst, float32(origin.X), float32(origin.Y), float32(sm.Hit.X), float32(sm.Hit.Y), 1, rayColor, true)
		vector.DrawFilledCircle(dst, float32(sm.Hit.X), float32(sm.Hit.Y), 3, hitColor, true)
		x, y := labelPos(sm.Hit)
		ebitenutil.DebugPrintAt(dst, Label(sm), x, y)
	}
}

// Label is the text drawn next to a ray's hit point.
func Label(sm lidar.Sample) string {
	return fmt.Sprintf("%.0f", sm.Distance)
}

// labelPos keeps a label next to p and inside the world.
func labelPos(p core.Vec) (int, int) {
	x := core.Clamp(int(p.X)+4, 0, flappy.ScreenWidth-4*charW)
	y := core.Clamp(int(p.Y)-charH, 0, flappy.ScreenHeight-charH)
	return x, y
}

// drawLines draws a centred text panel.
func drawLines(dst *ebiten.Image, lines ...string) {
	widest := 0
	for _, l := range lines {
		widest = core.Max(widest, len([]rune(l)))
	}
	w := widest*charW + 40
	h := len(lines)*charH + 24
	x := (flappy.ScreenWidth - w) / 2
	y := (flappy.ScreenHeight - h) / 2

	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), panelColor, false)
	for i, l := range lines {
		lx := (flappy.ScreenWidth - len([]rune(l))*charW) / 2
		ebitenutil.DebugPrintAt(dst, l, lx, y+12+i*charH)
	}
}
