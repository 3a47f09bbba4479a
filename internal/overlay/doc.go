// Package overlay tracks the translation overlay of every image on a page.
//
// Each image moves through idle, loading, translated, hidden and error.
// Transition is a pure function from state and event to the next state and
// a list of effects; Controller owns the per-image states, feeds them
// events and carries out the effects through a Renderer. Only the first
// trigger of an image reaches the pipeline. Toggling between translation
// and original reuses the stored result.
package overlay
