package model

import (
	"encoding/json"
	"fmt"
)

// BBox is a bounding box in image-local pixels: [x, y, width, height]
type BBox [4]float64

// PlaceholderBBox is used when a provider returns text without geometry
var PlaceholderBBox = BBox{0, 0, 100, 100}

// X returns the left edge
func (b BBox) X() float64 { return b[0] }

// Y returns the top edge
func (b BBox) Y() float64 { return b[1] }

// Width returns the box width
func (b BBox) Width() float64 { return b[2] }

// Height returns the box height
func (b BBox) Height() float64 { return b[3] }

// Valid reports whether the box has a positive area
func (b BBox) Valid() bool {
	return b[2] > 0 && b[3] > 0
}

// Clamped returns a copy with negative components set to zero
func (b BBox) Clamped() BBox {
	for i, v := range b {
		if v < 0 {
			b[i] = 0
		}
	}
	return b
}

// UnmarshalJSON accepts exactly four numbers. Anything else is an error so
// decoders can substitute a placeholder.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("bbox must have 4 components, got %d", len(raw))
	}
	copy(b[:], raw)
	return nil
}

// TextRegion is one recognized text fragment and its location
type TextRegion struct {
	Text string `json:"text"`
	BBox BBox   `json:"bbox"`
}

// Texts returns the text of every region in order
func Texts(regions []TextRegion) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = r.Text
	}
	return out
}
