package overlay

import "codeberg.org/snonux/readitfortheplot/internal/model"

// MinImageSize is the smallest rendered width and height offered translation
const MinImageSize = 50

// Geometry is an image's on-screen rectangle and its natural pixel size
type Geometry struct {
	X, Y                        float64
	Width, Height               float64
	NaturalWidth, NaturalHeight float64
}

// Rect is an on-screen rectangle
type Rect struct {
	X, Y, Width, Height float64
}

// Placement is one translated text and where it goes
type Placement struct {
	Text string
	Rect Rect
}

// Qualifies reports whether the image is large enough to offer translation
func (g Geometry) Qualifies() bool {
	return g.Width >= MinImageSize && g.Height >= MinImageSize
}

// Scale returns rendered size divided by natural size. An unknown natural
// size is treated as unscaled.
func (g Geometry) Scale() (sx, sy float64) {
	sx, sy = 1, 1
	if g.NaturalWidth > 0 {
		sx = g.Width / g.NaturalWidth
	}
	if g.NaturalHeight > 0 {
		sy = g.Height / g.NaturalHeight
	}
	return sx, sy
}

// Place maps an image-local box onto the screen
func (g Geometry) Place(b model.BBox) Rect {
	sx, sy := g.Scale()
	return Rect{
		X:      g.X + b.X()*sx,
		Y:      g.Y + b.Y()*sy,
		Width:  b.Width() * sx,
		Height: b.Height() * sy,
	}
}

// Layout places every translated region of result
func Layout(result model.TranslationResult, g Geometry) []Placement {
	out := make([]Placement, 0, len(result.Texts))
	for _, t := range result.Texts {
		out = append(out, Placement{Text: t.Text, Rect: g.Place(t.BBox)})
	}
	return out
}
