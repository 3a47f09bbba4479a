package imagesource

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// IsDataURL reports whether ref is a data: URL
func IsDataURL(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}

// EncodeDataURL builds a base64 data URL for data
func EncodeDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = SniffMIME(data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the payload and MIME type of a data URL. Raw base64
// without a data: prefix is also accepted.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)

	var mime string
	if IsDataURL(s) {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return nil, "", fmt.Errorf("malformed data URL: missing payload")
		}
		meta := s[len("data:"):idx]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("unsupported data URL encoding")
		}
		mime = strings.TrimSuffix(meta, ";base64")
		s = s[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// URL-safe variants show up in the wild
		var err2 error
		data, err2 = base64.URLEncoding.DecodeString(s)
		if err2 != nil {
			return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
		}
	}

	if mime == "" {
		mime = SniffMIME(data)
	}
	return data, mime, nil
}

// SniffMIME detects the MIME type from the content
func SniffMIME(data []byte) string {
	if len(data) == 0 {
		return "image/jpeg"
	}
	return http.DetectContentType(data)
}
