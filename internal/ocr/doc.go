// Package ocr extracts text regions from images through a vision capable
// chat completion API.
//
// The provider is asked for a JSON document of the form
//
//	{"texts": [{"text": "...", "bbox": [x, y, width, height]}]}
//
// but replies are not trusted to follow it. DecodeReply accepts fenced
// JSON, JSON surrounded by chatter and plain text. Plain text becomes a
// single region covering a placeholder box.
package ocr
