package textbuf

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel errors for buffer operations.
var (
	// ErrOffsetOutOfRange indicates a byte offset outside the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an invalid byte range: bounds outside the
	// buffer, Start > End, or a boundary that splits a UTF-8 code point.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrInvalidUTF8 indicates replacement text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// RevisionID identifies a buffer revision. Every applied edit produces a
// new revision.
type RevisionID uint64

// Buffer holds the authoritative text content as a flat byte slice.
//
// The content is always valid UTF-8: constructors reject invalid input
// and Apply only accepts edits whose boundaries fall on code-point
// boundaries and whose replacement text is valid UTF-8.
//
// A Buffer is not safe for concurrent use. Its owner serializes access;
// the content and any derived state (parse trees, spans) must be guarded
// together by a single lock, so the buffer carries none of its own.
type Buffer struct {
	content  []byte
	lines    []ByteOffset // start offset of each line
	revision RevisionID
}

// New creates an empty buffer.
func New() *Buffer {
	b := &Buffer{}
	b.rebuildLines()
	return b
}

// NewFromString creates a buffer with the given initial text.
// The text must be valid UTF-8.
func NewFromString(text string) (*Buffer, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	b := &Buffer{content: []byte(text)}
	b.rebuildLines()
	return b, nil
}

// NewFromBytes creates a buffer with a copy of the given initial content.
// The content must be valid UTF-8.
func NewFromBytes(content []byte) (*Buffer, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	b := &Buffer{content: append([]byte(nil), content...)}
	b.rebuildLines()
	return b, nil
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	return ByteOffset(len(b.content))
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.content) == 0
}

// Text returns the buffer content as a string.
func (b *Buffer) Text() string {
	return string(b.content)
}

// Bytes returns a copy of the buffer content.
//
// Applied edits replace the content slice rather than mutating it, so
// the returned copy stays valid as a snapshot of this revision.
func (b *Buffer) Bytes() []byte {
	return append([]byte(nil), b.content...)
}

// Revision returns the current revision. It starts at zero and increases
// by one for every applied edit.
func (b *Buffer) Revision() RevisionID {
	return b.revision
}

// Slice returns the text within the given range.
func (b *Buffer) Slice(r Range) (string, error) {
	if !r.IsValid() || r.End > b.Len() {
		return "", fmt.Errorf("%w: %s in buffer of %d bytes", ErrRangeInvalid, r, b.Len())
	}
	return string(b.content[r.Start:r.End]), nil
}

// PointAt translates a byte offset into a line/column point.
func (b *Buffer) PointAt(offset ByteOffset) (Point, error) {
	return PointAt(b.content, offset)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineRange returns the byte range of line i (0-indexed), excluding the
// trailing newline byte if present.
func (b *Buffer) LineRange(i int) (Range, error) {
	if i < 0 || i >= len(b.lines) {
		return Range{}, fmt.Errorf("%w: line %d of %d", ErrOffsetOutOfRange, i, len(b.lines))
	}
	start := b.lines[i]
	end := b.Len()
	if i+1 < len(b.lines) {
		end = b.lines[i+1] - 1 // drop the '\n'
	}
	return Range{Start: start, End: end}, nil
}

// LineText returns the text of line i (0-indexed) without its newline.
// Out-of-range lines yield an empty string.
func (b *Buffer) LineText(i int) string {
	r, err := b.LineRange(i)
	if err != nil {
		return ""
	}
	return string(b.content[r.Start:r.End])
}

// ValidateEdit checks an edit against the current content without
// applying it. A nil return guarantees Apply will accept the edit.
func (b *Buffer) ValidateEdit(e Edit) error {
	r := e.Range
	if r.Start < 0 || r.Start > r.End || r.End > b.Len() {
		return fmt.Errorf("%w: %s in buffer of %d bytes", ErrRangeInvalid, r, b.Len())
	}
	if !b.isCodePointStart(r.Start) || !b.isCodePointStart(r.End) {
		return fmt.Errorf("%w: %s splits a UTF-8 code point", ErrRangeInvalid, r)
	}
	if !utf8.ValidString(e.NewText) {
		return fmt.Errorf("%w: replacement %q", ErrInvalidUTF8, e.NewText)
	}
	return nil
}

// Apply replaces the edit's range with its replacement text.
//
// Application is all-or-nothing: any validation failure leaves the
// content untouched. On success the buffer holds exactly the splice of
// the previous content with the replacement inserted at the range.
func (b *Buffer) Apply(e Edit) (EditResult, error) {
	if err := b.ValidateEdit(e); err != nil {
		return EditResult{}, err
	}

	old := string(b.content[e.Range.Start:e.Range.End])

	spliced := make([]byte, 0, b.Len()+e.Delta())
	spliced = append(spliced, b.content[:e.Range.Start]...)
	spliced = append(spliced, e.NewText...)
	spliced = append(spliced, b.content[e.Range.End:]...)
	b.content = spliced
	b.revision++
	b.rebuildLines()

	return EditResult{
		OldRange: e.Range,
		NewRange: Range{
			Start: e.Range.Start,
			End:   e.Range.Start + ByteOffset(len(e.NewText)),
		},
		OldText: old,
		Delta:   e.Delta(),
	}, nil
}

// Insert inserts text at the given offset and returns the offset just
// past the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.Apply(NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Apply(NewDelete(start, end))
	return err
}

// Replace substitutes the text in [start, end) and returns the offset
// just past the replacement.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.Apply(NewEdit(Range{Start: start, End: end}, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// SetText replaces the entire content.
func (b *Buffer) SetText(text string) error {
	_, err := b.Apply(NewEdit(Range{Start: 0, End: b.Len()}, text))
	return err
}

// isCodePointStart reports whether offset falls on a UTF-8 code-point
// boundary. The buffer end counts as a boundary.
func (b *Buffer) isCodePointStart(offset ByteOffset) bool {
	if offset == b.Len() {
		return true
	}
	return utf8.RuneStart(b.content[offset])
}

// rebuildLines recomputes the line-start index.
func (b *Buffer) rebuildLines() {
	b.lines = b.lines[:0]
	b.lines = append(b.lines, 0)
	for i, c := range b.content {
		if c == '\n' {
			b.lines = append(b.lines, ByteOffset(i)+1)
		}
	}
}
