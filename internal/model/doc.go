// Package model holds the data types shared by the OCR, translation,
// cache and overlay packages: text regions with their bounding boxes,
// translation results and the classified pipeline errors.
package model
