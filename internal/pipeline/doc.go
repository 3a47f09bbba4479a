// Package pipeline runs one image through cache lookup, OCR and
// translation and always answers with a model.TranslationResult. Errors
// and panics from collaborators are turned into failed results; nothing
// escapes as a Go error.
package pipeline
