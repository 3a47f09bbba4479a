package ocr

import (
	"encoding/json"
	"strings"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

type replyDoc struct {
	Texts *[]replyRegion `json:"texts"`
}

type replyRegion struct {
	Text string          `json:"text"`
	BBox json.RawMessage `json:"bbox"`
}

// DecodeReply turns a provider reply into text regions.
// Fallback marks replies that carried no usable JSON and were taken as
// plain text.
func DecodeReply(provider, reply string) (regions []model.TextRegion, fallback bool, err error) {
	content := stripCodeFences(reply)
	if content == "" {
		return nil, false, model.NewProviderError(provider, "no content returned", nil)
	}

	doc, ok := findTextsObject(content)
	if !ok && isJSONObject(content) {
		// A JSON answer without texts found nothing
		return []model.TextRegion{}, false, nil
	}
	if !ok {
		return []model.TextRegion{{
			Text: content,
			BBox: model.PlaceholderBBox,
		}}, true, nil
	}

	regions = make([]model.TextRegion, 0, len(*doc.Texts))
	for _, r := range *doc.Texts {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		regions = append(regions, model.TextRegion{
			Text: text,
			BBox: decodeBBox(r.BBox),
		})
	}
	return regions, false, nil
}

// findTextsObject returns the first JSON object in s that decodes and has a
// texts field. Each '{' is tried as a start so leading prose or stray
// braces do not hide a later document.
func findTextsObject(s string) (replyDoc, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}

		var doc replyDoc
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		if err := dec.Decode(&doc); err != nil {
			continue
		}
		if doc.Texts != nil {
			return doc, true
		}
	}
	return replyDoc{}, false
}

func isJSONObject(s string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}

func decodeBBox(raw json.RawMessage) model.BBox {
	if len(raw) == 0 {
		return model.PlaceholderBBox
	}
	var b model.BBox
	if err := json.Unmarshal(raw, &b); err != nil {
		return model.PlaceholderBBox
	}
	return b.Clamped()
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as json on the opening fence
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
