package textbuf

import "fmt"

// ByteOffset represents a byte position in the buffer.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// PointAt translates a byte offset within src into a line/column Point.
//
// The scan always starts from the true beginning of src at line 0,
// column 0; every '\n' byte in src[:offset] advances the line and resets
// the column, every other byte advances the column. The result is a pure
// function of (src, offset) with no implicit starting position.
//
// Offsets outside [0, len(src)] fail with ErrOffsetOutOfRange.
func PointAt(src []byte, offset ByteOffset) (Point, error) {
	if offset < 0 || offset > ByteOffset(len(src)) {
		return Point{}, fmt.Errorf("%w: offset %d in %d bytes", ErrOffsetOutOfRange, offset, len(src))
	}
	return AdvancePoint(Point{}, src[:offset]), nil
}

// AdvancePoint scans text and returns the point reached when starting
// from p. It is the continuation form of PointAt, used to locate the end
// of a replacement string relative to the edit's start position.
func AdvancePoint(p Point, text []byte) Point {
	for _, b := range text {
		if b == '\n' {
			p.Line++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}
