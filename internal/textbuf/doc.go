// Package textbuf provides the text buffer underlying the highlighting
// engine: a flat, always-valid-UTF-8 byte sequence mutated exclusively
// through range-replacement edits.
//
// # Positions and ranges
//
// All positions are byte offsets (ByteOffset). Range is a half-open
// [Start, End) byte interval. Point is a zero-based line/column pair
// whose column counts bytes within the line; PointAt converts an offset
// to a Point by a pure scan from the start of the content, and
// AdvancePoint continues such a scan through additional text. These two
// functions are the single source of truth for offset-to-position
// translation; every caller that needs line/column coordinates for the
// same content must go through them so all uses share identical
// semantics.
//
// # Edits
//
// Edit describes one change: replace Range with NewText. Buffer.Apply
// validates the whole edit up front — bounds, code-point boundaries,
// replacement UTF-8 validity — and applies it all-or-nothing, returning
// an EditResult describing what changed. Convenience wrappers Insert,
// Delete, Replace and SetText build the obvious edits.
//
// # Concurrency
//
// A Buffer carries no lock. The engine that owns it also owns derived
// state (parse tree, style spans) that must stay consistent with the
// content, so synchronization happens one level up, around buffer and
// derived state together.
package textbuf
