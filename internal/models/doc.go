// Package models lists the models an OpenAI compatible endpoint offers to
// the configured key, grouped into vision capable, chat and other models,
// so users can pick values for --ocr-model and --translation-model.
package models
