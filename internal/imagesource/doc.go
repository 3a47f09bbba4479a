// Package imagesource turns an image reference into bytes ready for the OCR
// provider. References are data URLs, http(s) URLs or local file paths.
// Data URLs pass through unchanged; everything else is fetched, size
// checked and sniffed for its MIME type.
package imagesource
