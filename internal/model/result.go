package model

// TranslationResult is the only value that crosses the pipeline boundary.
// On success Texts and OriginalTexts are index aligned; on failure both are
// nil and Error is set.
type TranslationResult struct {
	Success       bool         `json:"success"`
	Texts         []TextRegion `json:"texts,omitempty"`
	OriginalTexts []TextRegion `json:"originalTexts,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// Succeeded builds a successful result. The translated texts take their
// geometry from the originals, so a length mismatch is truncated to the
// shorter of the two rather than leaving unaligned entries behind.
func Succeeded(texts, originals []TextRegion) TranslationResult {
	n := len(originals)
	if len(texts) < n {
		n = len(texts)
	}

	aligned := make([]TextRegion, n)
	orig := make([]TextRegion, n)
	for i := 0; i < n; i++ {
		aligned[i] = TextRegion{Text: texts[i].Text, BBox: originals[i].BBox}
		orig[i] = originals[i]
	}

	return TranslationResult{
		Success:       true,
		Texts:         aligned,
		OriginalTexts: orig,
	}
}

// Failed builds an unsuccessful result carrying message
func Failed(message string) TranslationResult {
	if message == "" {
		message = "translation failed"
	}
	return TranslationResult{
		Success: false,
		Error:   message,
	}
}
