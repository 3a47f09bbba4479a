package imagesource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Image is a loaded image reference
type Image struct {
	Reference string // What the caller passed in; used for fingerprinting
	Data      []byte
	MIME      string
}

// DataURL returns the image as a data URL
func (i *Image) DataURL() string {
	if IsDataURL(i.Reference) {
		return strings.TrimSpace(i.Reference)
	}
	return EncodeDataURL(i.MIME, i.Data)
}

// Size decodes only the header and returns the natural dimensions
func (i *Image) Size() (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(i.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Options configures a Loader
type Options struct {
	MaxSizeBytes int64 // 0 means no limit
	Timeout      time.Duration
}

// DefaultOptions returns the loader defaults
func DefaultOptions() Options {
	return Options{
		MaxSizeBytes: 20 * 1024 * 1024,
		Timeout:      30 * time.Second,
	}
}

// Loader resolves image references
type Loader struct {
	client  *http.Client
	options Options
}

// NewLoader creates a loader. A nil client uses one with the configured timeout.
func NewLoader(client *http.Client, options Options) *Loader {
	if client == nil {
		client = &http.Client{Timeout: options.Timeout}
	}
	return &Loader{client: client, options: options}
}

// Load resolves ref into an Image
func (l *Loader) Load(ctx context.Context, ref string) (*Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty image reference")
	}

	switch {
	case IsDataURL(ref):
		data, mime, err := DecodeDataURL(ref)
		if err != nil {
			return nil, err
		}
		return &Image{Reference: ref, Data: data, MIME: mime}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		return l.readFile(ref)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	mime := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		mime = SniffMIME(data)
	}
	return &Image{Reference: url, Data: data, MIME: mime}, nil
}

func (l *Loader) readFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := l.readLimited(f)
	if err != nil {
		return nil, err
	}
	return &Image{Reference: path, Data: data, MIME: SniffMIME(data)}, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	if l.options.MaxSizeBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, l.options.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > l.options.MaxSizeBytes {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", l.options.MaxSizeBytes)
	}
	return data, nil
}
