package imagesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/readitfortheplot/internal/testutil"
)

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantData string
		wantMIME string
		wantErr  bool
	}{
		{"png data url", "data:image/png;base64,aGVsbG8=", "hello", "image/png", false},
		{"raw base64", "aGVsbG8=", "hello", "text/plain; charset=utf-8", false},
		{"url safe", "data:image/jpeg;base64,-_8=", "\xfb\xff", "image/jpeg", false},
		{"missing comma", "data:image/png;base64", "", "", true},
		{"not base64 encoded", "data:text/plain,hello", "", "", true},
		{"garbage", "data:image/png;base64,!!!", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mime, err := DecodeDataURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeDataURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if string(data) != tt.wantData {
				t.Errorf("data = %q, want %q", data, tt.wantData)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}
}

func TestEncodeDataURL(t *testing.T) {
	png := testutil.PNG(t, 2, 2)
	url := EncodeDataURL("", png)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("EncodeDataURL() = %q, want image/png prefix", url[:30])
	}

	data, mime, err := DecodeDataURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/png" || len(data) != len(png) {
		t.Errorf("Decoded %d bytes of %s, want %d bytes of image/png", len(data), mime, len(png))
	}
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comic.png")
	testutil.CreateTestFile(t, path, testutil.PNG(t, 120, 80))

	img, err := NewLoader(nil, DefaultOptions()).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %s, want image/png", img.MIME)
	}
	if img.Reference != path {
		t.Errorf("Reference = %s, want %s", img.Reference, path)
	}

	w, h, err := img.Size()
	if err != nil {
		t.Fatal(err)
	}
	if w != 120 || h != 80 {
		t.Errorf("Size() = %dx%d, want 120x80", w, h)
	}
	if !strings.HasPrefix(img.DataURL(), "data:image/png;base64,") {
		t.Error("DataURL() did not produce a png data URL")
	}
}

func TestLoader_DataURLPassesThrough(t *testing.T) {
	ref := EncodeDataURL("image/png", testutil.PNG(t, 1, 1))

	img, err := NewLoader(nil, DefaultOptions()).Load(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	if img.DataURL() != ref {
		t.Error("DataURL() should return the original data URL")
	}
}

func TestLoader_HTTP(t *testing.T) {
	png := testutil.PNG(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(png)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), DefaultOptions())

	img, err := loader.Load(context.Background(), server.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %s, want sniffed image/png", img.MIME)
	}

	if _, err := loader.Load(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("Load() of a 404 should fail")
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.png")
	testutil.CreateTestFile(t, big, make([]byte, 64))

	loader := NewLoader(nil, Options{MaxSizeBytes: 32})

	tests := []struct {
		name string
		ref  string
	}{
		{"empty", "  "},
		{"missing file", filepath.Join(dir, "nope.png")},
		{"too large", big},
		{"bad data url", "data:image/png;base64,%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.ref); err == nil {
				t.Errorf("Load(%q) should fail", tt.ref)
			}
		})
	}
}
