package stormlight

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/stormlight/internal/highlight"
	"github.com/dshills/stormlight/internal/syntax"
	"github.com/dshills/stormlight/internal/textbuf"
)

// Document is a text buffer with incremental syntax highlighting.
//
// The document owns its buffer, parser and syntax tree; the Grammar it was
// created with is shared and immutable. All methods are safe for
// concurrent use: reads take a shared lock, edits an exclusive one, so a
// reader always observes a consistent text/spans pair.
type Document struct {
	mu sync.RWMutex

	grammar *Grammar
	theme   *highlight.Theme

	buf    *textbuf.Buffer
	parser *syntax.Parser

	// src is the source the current tree was parsed from. It matches the
	// buffer content at all times and feeds the pre-edit descriptor scans
	// without re-copying the buffer.
	src []byte

	spans    []Span
	degraded bool

	maxSourceLen ByteOffset
}

// Snapshot is a point-in-time copy of a document's text and spans.
type Snapshot struct {
	Text     string
	Spans    []Span
	Revision RevisionID
}

// New creates a document with the given initial text.
//
// The text must be valid UTF-8 and within the size limit. A failed initial
// parse does not fail construction: the document starts degraded with no
// spans, and recovers on a later successful parse.
func New(text string, g *Grammar, opts ...Option) (*Document, error) {
	if g == nil {
		return nil, ErrNoLanguage
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if ByteOffset(len(text)) > cfg.maxSourceLen {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrSourceTooLarge, len(text), cfg.maxSourceLen)
	}
	if cfg.strictCaptures {
		if unmapped := highlight.UnmappedCaptures(g.CaptureNames()); len(unmapped) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCapture, strings.Join(unmapped, ", "))
		}
	}

	buf, err := textbuf.NewFromString(text)
	if err != nil {
		return nil, err
	}
	parser, err := syntax.NewParser(g.lang)
	if err != nil {
		return nil, err
	}

	d := &Document{
		grammar:      g,
		theme:        cfg.theme,
		buf:          buf,
		parser:       parser,
		maxSourceLen: cfg.maxSourceLen,
	}
	d.src = buf.Bytes()
	if err := d.parser.ParseInitial(d.src); err != nil {
		d.degraded = true
		return d, nil
	}
	d.recomputeSpansLocked()
	return d, nil
}

// Edit replaces the byte range r with text and re-highlights.
//
// Invalid edits are rejected before any state changes: the range must lie
// within the document, fall on UTF-8 code-point boundaries, and the
// replacement must be valid UTF-8. A successful edit survives even a
// failed reparse — highlighting then disappears until a later parse
// succeeds, reported by Degraded.
func (d *Document) Edit(r Range, text string) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editLocked(textbuf.NewEdit(r, text))
}

// Insert inserts text at the given offset.
func (d *Document) Insert(off ByteOffset, text string) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editLocked(textbuf.NewInsert(off, text))
}

// Delete removes the byte range [start, end).
func (d *Document) Delete(start, end ByteOffset) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editLocked(textbuf.NewDelete(start, end))
}

// Replace replaces the byte range [start, end) with text.
func (d *Document) Replace(start, end ByteOffset, text string) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editLocked(textbuf.NewEdit(textbuf.NewRange(start, end), text))
}

// SetText replaces the whole document. The edit flows through the same
// incremental path as any other; with the entire buffer changed there is
// simply little for the parser to reuse.
func (d *Document) SetText(text string) (EditResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editLocked(textbuf.NewEdit(textbuf.NewRange(0, d.buf.Len()), text))
}

// editLocked runs the edit pipeline: validate, describe the structural
// edit from the pre-edit source, shift the tree, splice the buffer,
// reparse, recompute spans. Order matters — the descriptor must see the
// buffer as the tree last saw it.
func (d *Document) editLocked(edit textbuf.Edit) (EditResult, error) {
	if err := d.buf.ValidateEdit(edit); err != nil {
		return EditResult{}, err
	}
	if newLen := d.buf.Len() + edit.Delta(); newLen > d.maxSourceLen {
		return EditResult{}, fmt.Errorf("%w: edit grows document to %d bytes, limit is %d", ErrSourceTooLarge, newLen, d.maxSourceLen)
	}

	inputEdit, err := syntax.DescribeEdit(d.src, edit.Range, edit.NewText)
	if err != nil {
		return EditResult{}, err
	}

	d.parser.ApplyEdit(inputEdit)

	result, err := d.buf.Apply(edit)
	if err != nil {
		return EditResult{}, err
	}

	d.src = d.buf.Bytes()
	if err := d.parser.Reparse(d.src); err != nil {
		d.degraded = true
		d.spans = nil
		return result, nil
	}
	d.degraded = false

	d.recomputeSpansLocked()
	return result, nil
}

// recomputeSpansLocked rebuilds the span list from the current tree.
func (d *Document) recomputeSpansLocked() {
	if !d.parser.HasTree() || d.parser.Stale() {
		d.spans = nil
		return
	}

	caps := d.grammar.query.Captures(d.parser.Tree())
	spans := make([]Span, 0, len(caps))
	for _, c := range caps {
		cat := highlight.CategoryFromCapture(c.Name)
		st, visible := d.theme.Resolve(cat)
		if !visible {
			continue
		}
		spans = append(spans, Span{
			Range:    c.Range(),
			Style:    st,
			Category: cat,
			Capture:  c.Name,
		})
	}
	sortSpans(spans)
	d.spans = spans
}

// Text returns the document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Text()
}

// Bytes returns a copy of the document content.
func (d *Document) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Bytes()
}

// Len returns the document length in bytes.
func (d *Document) Len() ByteOffset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Len()
}

// IsEmpty reports whether the document is empty.
func (d *Document) IsEmpty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.IsEmpty()
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineCount()
}

// LineText returns the text of line i without its newline, or "" when i is
// out of range.
func (d *Document) LineText(i int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineText(i)
}

// LineRange returns the byte range of line i, excluding its newline.
func (d *Document) LineRange(i int) (Range, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineRange(i)
}

// Slice returns the text within r.
func (d *Document) Slice(r Range) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Slice(r)
}

// PointAt translates a byte offset into a line/column point against the
// current content.
func (d *Document) PointAt(off ByteOffset) (Point, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.PointAt(off)
}

// Spans returns the current highlight spans: one per retained capture,
// ordered by start offset with enclosing spans before nested ones. The
// returned slice is a fresh copy the caller may keep or mutate.
//
// Spans may nest and overlap; renderers that want one style per byte
// flatten them with FlattenSpans.
func (d *Document) Spans() []Span {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Span(nil), d.spans...)
}

// SpansIn returns the spans overlapping r, in Spans order.
func (d *Document) SpansIn(r Range) []Span {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Span
	for _, s := range d.spans {
		if s.Range.Overlaps(r) {
			out = append(out, s)
		}
	}
	return out
}

// Snapshot returns a point-in-time copy of text and spans. Later edits do
// not affect it.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		Text:     d.buf.Text(),
		Spans:    append([]Span(nil), d.spans...),
		Revision: d.buf.Revision(),
	}
}

// Revision returns the current revision, increasing by one per applied
// edit.
func (d *Document) Revision() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Revision()
}

// Degraded reports whether the last parse failed. A degraded document has
// no spans; content and edits are unaffected.
func (d *Document) Degraded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.degraded
}

// Grammar returns the shared grammar this document highlights with.
func (d *Document) Grammar() *Grammar {
	return d.grammar
}

// Theme returns the current theme.
func (d *Document) Theme() *Theme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}

// SetTheme swaps the theme and restyles the existing spans from the
// current tree. No reparse happens; this is what theme hot reload calls.
// A nil theme is ignored.
func (d *Document) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.theme = t
	d.recomputeSpansLocked()
}
