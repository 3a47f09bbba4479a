// Package translation translates recognized text regions through a large
// language model.
//
// All regions of an image go out in one prompt, each line tagged with its
// index ("[0] text"). The reply is split on those tags again; a region whose
// tag is missing keeps its original text, so a partial reply never fails
// the whole image.
package translation
