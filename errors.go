package stormlight

import (
	"errors"

	"github.com/dshills/stormlight/internal/syntax"
	"github.com/dshills/stormlight/internal/textbuf"
)

// Errors returned by the public API. The internal sentinels are re-exported
// so callers can use errors.Is without importing internal packages.
var (
	// ErrNoLanguage indicates a grammar was requested for a language that
	// is not available.
	ErrNoLanguage = syntax.ErrNoLanguage

	// ErrQueryCompile indicates a highlight query failed to compile.
	ErrQueryCompile = syntax.ErrQueryCompile

	// ErrRangeInvalid indicates an edit or slice range that is out of
	// bounds, reversed, or splits a UTF-8 code point.
	ErrRangeInvalid = textbuf.ErrRangeInvalid

	// ErrOffsetOutOfRange indicates a byte offset outside the document.
	ErrOffsetOutOfRange = textbuf.ErrOffsetOutOfRange

	// ErrInvalidUTF8 indicates document or replacement text that is not
	// valid UTF-8.
	ErrInvalidUTF8 = textbuf.ErrInvalidUTF8

	// ErrUnknownCapture indicates the grammar's query uses captures no
	// category covers. Only returned under WithStrictCaptures.
	ErrUnknownCapture = errors.New("unknown capture")

	// ErrSourceTooLarge indicates a document or edit would exceed the
	// configured size limit.
	ErrSourceTooLarge = errors.New("source too large")
)
