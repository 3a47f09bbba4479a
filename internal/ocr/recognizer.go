package ocr

import (
	"context"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// Prompt is the instruction sent alongside the image
const Prompt = `Extract all text from this image. Return the text with bounding box coordinates in JSON format: {"texts": [{"text": "...", "bbox": [x, y, width, height]}]}. If no text is found, return {"texts": []}.`

// Recognizer extracts text regions from an encoded image
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, apiKey string) ([]model.TextRegion, error)
	Name() string
}
