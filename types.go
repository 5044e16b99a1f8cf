package stormlight

import (
	"github.com/dshills/stormlight/internal/textbuf"
)

// Buffer coordinate types, aliased from the internal buffer package so the
// public surface is a single import.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = textbuf.ByteOffset

	// Point is a zero-based line/column position. Column counts bytes.
	Point = textbuf.Point

	// Range is a half-open byte range [Start, End).
	Range = textbuf.Range

	// EditResult describes an applied edit.
	EditResult = textbuf.EditResult

	// RevisionID identifies a document revision.
	RevisionID = textbuf.RevisionID
)

// NewRange creates the half-open range [start, end).
func NewRange(start, end ByteOffset) Range {
	return textbuf.NewRange(start, end)
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return textbuf.GraphemeCount(s)
}

// NextGraphemeBoundary returns the first grapheme boundary strictly after
// offset, or len(s). Cursor movement and deletion should step by grapheme
// so combining sequences and emoji stay intact.
func NextGraphemeBoundary(s string, offset int) int {
	return textbuf.NextGraphemeBoundary(s, offset)
}

// PrevGraphemeBoundary returns the last grapheme boundary strictly before
// offset, or 0.
func PrevGraphemeBoundary(s string, offset int) int {
	return textbuf.PrevGraphemeBoundary(s, offset)
}
