package render

import (
	"image"
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"

	"codeberg.org/snonux/readitfortheplot/internal/overlay"
	"codeberg.org/snonux/readitfortheplot/internal/testutil"
)

func blackImage(w, h int) image.Image {
	return imaging.New(w, h, color.Black)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"hello world", 20, []string{"hello world"}},
		{"hello world", 5, []string{"hello", "world"}},
		{"abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"one\ntwo", 10, []string{"one", "two"}},
		{"", 10, nil},
	}

	for _, tt := range tests {
		if got := wrap(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestCompositor_PaintsVisibleOverlay(t *testing.T) {
	c := NewCompositor(nil)
	c.Attach("img", blackImage(100, 60))

	placements := []overlay.Placement{{Text: "Hello", Rect: overlay.Rect{X: 10, Y: 10, Width: 80, Height: 20}}}
	if err := c.Create("img", placements); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	frame, err := c.Frame("img")
	if err != nil {
		t.Fatal(err)
	}

	// Inside the box the background turns light, outside it stays black
	if r, _, _, _ := frame.At(85, 28).RGBA(); r < 0x8000 {
		t.Error("Overlay box not painted")
	}
	if r, _, _, _ := frame.At(5, 5).RGBA(); r != 0 {
		t.Error("Pixel outside overlay changed")
	}

	c.Hide("img")
	frame, _ = c.Frame("img")
	if r, _, _, _ := frame.At(85, 28).RGBA(); r != 0 {
		t.Error("Hidden overlay still painted")
	}
	if c.Visible("img") {
		t.Error("Visible() after Hide() = true")
	}

	c.Show("img")
	if !c.Visible("img") {
		t.Error("Visible() after Show() = false")
	}
}

func TestCompositor_Position(t *testing.T) {
	c := NewCompositor(nil)
	c.Attach("img", blackImage(100, 100))
	c.Create("img", []overlay.Placement{{Text: "x", Rect: overlay.Rect{X: 0, Y: 0, Width: 20, Height: 20}}})
	c.Position("img", []overlay.Placement{{Text: "x", Rect: overlay.Rect{X: 60, Y: 60, Width: 20, Height: 20}}})

	frame, _ := c.Frame("img")
	if r, _, _, _ := frame.At(19, 19).RGBA(); r != 0 {
		t.Error("Old position still painted")
	}
	if r, _, _, _ := frame.At(79, 79).RGBA(); r < 0x8000 {
		t.Error("New position not painted")
	}
}

func TestCompositor_Errors(t *testing.T) {
	c := NewCompositor(nil)
	if err := c.Create("missing", nil); err == nil {
		t.Error("Create() without attached image should fail")
	}
	if _, err := c.Frame("missing"); err == nil {
		t.Error("Frame() without attached image should fail")
	}

	c.Attach("img", blackImage(10, 10))
	c.Destroy("img")
	if _, err := c.Frame("img"); err == nil {
		t.Error("Frame() after Destroy() should fail")
	}
}

func TestCompositor_SaveAndNotify(t *testing.T) {
	c := NewCompositor(nil)
	c.Attach("img", blackImage(50, 50))
	c.Notify("img", "No text found in image")

	if got := c.Messages("img"); len(got) != 1 || got[0] != "No text found in image" {
		t.Errorf("Messages() = %v", got)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.Save("img", path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	testutil.AssertFileExists(t, path)
}
