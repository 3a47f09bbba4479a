// Package render draws translation overlays onto image files.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"codeberg.org/snonux/readitfortheplot/internal/overlay"
)

var (
	boxColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 235}
	textColor = color.Black
)

type layer struct {
	base       image.Image
	placements []overlay.Placement
	created    bool
	visible    bool
	controlOn  bool
	messages   []string
}

// Compositor is an overlay.Renderer that paints translated text boxes over
// the source image
type Compositor struct {
	mu     sync.Mutex
	layers map[string]*layer
	face   font.Face
	logger *zap.Logger
}

// NewCompositor creates an empty compositor
func NewCompositor(logger *zap.Logger) *Compositor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compositor{
		layers: make(map[string]*layer),
		face:   basicfont.Face7x13,
		logger: logger,
	}
}

// Attach registers the source image for id
func (c *Compositor) Attach(id string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer(id).base = img
}

func (c *Compositor) layer(id string) *layer {
	l, ok := c.layers[id]
	if !ok {
		l = &layer{}
		c.layers[id] = l
	}
	return l
}

func (c *Compositor) Create(id string, placements []overlay.Placement) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.layer(id)
	if l.base == nil {
		return fmt.Errorf("no image attached for %s", id)
	}
	l.placements = placements
	l.created = true
	l.visible = true
	return nil
}

func (c *Compositor) Show(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer(id).visible = true
}

func (c *Compositor) Hide(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer(id).visible = false
}

func (c *Compositor) Position(id string, placements []overlay.Placement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer(id).placements = placements
}

func (c *Compositor) Destroy(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.layers, id)
}

func (c *Compositor) Notify(id, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.layer(id)
	l.messages = append(l.messages, message)
	c.logger.Info("Overlay notification", zap.String("id", id), zap.String("message", message))
}

func (c *Compositor) SetControl(id string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer(id).controlOn = enabled
}

// Messages returns the notifications shown for id
func (c *Compositor) Messages(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.layers[id]; ok {
		return append([]string(nil), l.messages...)
	}
	return nil
}

// Visible reports whether id currently shows its translation
func (c *Compositor) Visible(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.layers[id]
	return ok && l.created && l.visible
}

// Frame returns the image as currently seen: the source with the overlay
// painted on top when it is visible
func (c *Compositor) Frame(id string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.layers[id]
	if !ok || l.base == nil {
		return nil, fmt.Errorf("no image attached for %s", id)
	}

	dst := imaging.Clone(l.base)
	if l.created && l.visible {
		for _, p := range l.placements {
			c.paint(dst, p)
		}
	}
	return dst, nil
}

// Save writes the current frame; the format follows the file extension
func (c *Compositor) Save(id, path string) error {
	frame, err := c.Frame(id)
	if err != nil {
		return err
	}
	if err := imaging.Save(frame, path); err != nil {
		return fmt.Errorf("failed to save overlay image: %w", err)
	}
	return nil
}

func (c *Compositor) paint(dst *image.NRGBA, p overlay.Placement) {
	r := image.Rect(
		int(p.Rect.X), int(p.Rect.Y),
		int(p.Rect.X+p.Rect.Width), int(p.Rect.Y+p.Rect.Height),
	).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	xdraw.Draw(dst, r, image.NewUniform(boxColor), image.Point{}, xdraw.Over)

	metrics := c.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	advance := font.MeasureString(c.face, "M").Ceil()
	if advance <= 0 {
		advance = 7
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(textColor), Face: c.face}
	y := r.Min.Y + metrics.Ascent.Ceil()
	for _, line := range wrap(p.Text, r.Dx()/advance) {
		if y > r.Max.Y {
			break
		}
		d.Dot = fixed.P(r.Min.X+1, y)
		d.DrawString(line)
		y += lineHeight
	}
}

// wrap breaks text into lines of at most width runes, splitting on spaces
// where possible
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > width {
				if len(cur) > 0 {
					lines = append(lines, string(cur))
					cur = nil
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(cur) == 0:
				cur = w
			case len(cur)+1+len(w) <= width:
				cur = append(append(cur, ' '), w...)
			default:
				lines = append(lines, string(cur))
				cur = w
			}
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	return lines
}
