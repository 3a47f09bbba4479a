package translation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// AutoDetect is the source language value asking the model to detect it
const AutoDetect = "auto"

// Translator translates text regions from source to target language.
// Output has the input's length, order and bounding boxes.
type Translator interface {
	Translate(ctx context.Context, regions []model.TextRegion, source, target, apiKey string) ([]model.TextRegion, error)
	Name() string
}

// indexTag matches a region tag at the start of a line; bracketed numbers
// inside a translation are text
var indexTag = regexp.MustCompile(`(?m)^[ \t]*\[(\d+)\]`)

// LanguageName renders a language code for the prompt
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, AutoDetect) {
		return "detected language"
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// BuildPrompt builds the single prompt covering every region
func BuildPrompt(regions []model.TextRegion, source, target string) string {
	lines := make([]string, len(regions))
	for i, r := range regions {
		lines[i] = fmt.Sprintf("[%d] %s", i, r.Text)
	}

	return fmt.Sprintf(
		"Translate the following text from %s to %s. Preserve the [number] prefixes in your translation:\n\n%s",
		LanguageName(source), LanguageName(target), strings.Join(lines, "\n"))
}

// ParseReply maps a tagged reply back onto regions. The text after the
// first line starting with [i] up to the next tagged line is region i's
// translation.
func ParseReply(reply string, regions []model.TextRegion) []model.TextRegion {
	matches := indexTag.FindAllStringSubmatchIndex(reply, -1)

	// start and end of each region's text, first occurrence wins
	spans := make(map[int][2]int, len(matches))
	for m, loc := range matches {
		idx, err := strconv.Atoi(reply[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		if _, seen := spans[idx]; seen {
			continue
		}
		end := len(reply)
		if m+1 < len(matches) {
			end = matches[m+1][0]
		}
		spans[idx] = [2]int{loc[1], end}
	}

	out := make([]model.TextRegion, len(regions))
	for i, r := range regions {
		out[i] = r
		span, ok := spans[i]
		if !ok {
			continue
		}
		if text := strings.TrimSpace(reply[span[0]:span[1]]); text != "" {
			out[i].Text = text
		}
	}
	return out
}
