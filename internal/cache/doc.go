// Package cache stores translation results keyed by image fingerprint.
//
// All entries live in one JSON blob under a single key of the local cache
// store. Entries expire after seven days and at most one hundred are kept;
// when a write pushes the count past the limit the oldest entries by
// insertion time are dropped in that same write. Storage failures never
// reach the caller: a failed read is a miss and a failed write is a no-op.
package cache
