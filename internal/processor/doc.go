// Package processor connects the command line to the translation
// components. It builds the stores, providers, cache and pipeline from the
// resolved configuration and implements every command: translating an
// image into an overlay file, serving the HTTP API, and maintaining the
// stored settings and the result cache.
package processor
