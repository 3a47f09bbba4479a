package overlay

import (
	"testing"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

func TestGeometry_Qualifies(t *testing.T) {
	tests := []struct {
		w, h float64
		want bool
	}{
		{50, 50, true},
		{300, 200, true},
		{49, 200, false},
		{200, 49, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		g := Geometry{Width: tt.w, Height: tt.h}
		if got := g.Qualifies(); got != tt.want {
			t.Errorf("Qualifies(%vx%v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestGeometry_Place(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		box  model.BBox
		want Rect
	}{
		{
			name: "unscaled",
			g:    Geometry{X: 10, Y: 20, Width: 100, Height: 100, NaturalWidth: 100, NaturalHeight: 100},
			box:  model.BBox{5, 5, 30, 10},
			want: Rect{X: 15, Y: 25, Width: 30, Height: 10},
		},
		{
			name: "half size",
			g:    Geometry{Width: 200, Height: 100, NaturalWidth: 400, NaturalHeight: 200},
			box:  model.BBox{100, 40, 80, 20},
			want: Rect{X: 50, Y: 20, Width: 40, Height: 10},
		},
		{
			name: "unknown natural size",
			g:    Geometry{X: 1, Y: 2, Width: 200, Height: 100},
			box:  model.BBox{0, 0, 80, 20},
			want: Rect{X: 1, Y: 2, Width: 80, Height: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Place(tt.box); got != tt.want {
				t.Errorf("Place() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	result := model.Succeeded(
		[]model.TextRegion{{Text: "Hello"}, {Text: "World"}},
		[]model.TextRegion{{Text: "Bonjour", BBox: model.BBox{0, 0, 80, 20}}, {Text: "Monde", BBox: model.BBox{0, 40, 80, 20}}},
	)
	g := Geometry{Width: 100, Height: 100, NaturalWidth: 200, NaturalHeight: 200}

	got := Layout(result, g)
	if len(got) != 2 {
		t.Fatalf("Layout() returned %d placements, want 2", len(got))
	}
	if got[1].Text != "World" || got[1].Rect != (Rect{X: 0, Y: 20, Width: 40, Height: 10}) {
		t.Errorf("Layout()[1] = %+v", got[1])
	}
}
