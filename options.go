package stormlight

import (
	"github.com/dshills/stormlight/internal/highlight"
)

// DefaultMaxSourceLen bounds document size to keep full-buffer operations
// (initial parse, SetText) within interactive latency.
const DefaultMaxSourceLen ByteOffset = 16 << 20 // 16 MiB

type options struct {
	theme          *highlight.Theme
	strictCaptures bool
	maxSourceLen   ByteOffset
}

func defaultOptions() options {
	return options{
		theme:        highlight.OneMonokai(),
		maxSourceLen: DefaultMaxSourceLen,
	}
}

// Option configures a Document at construction.
type Option func(*options)

// WithTheme sets the document's theme. A nil theme keeps the default.
func WithTheme(t *Theme) Option {
	return func(o *options) {
		if t != nil {
			o.theme = t
		}
	}
}

// WithStrictCaptures makes construction fail with ErrUnknownCapture when
// the grammar's query uses capture names no category covers. Without it,
// unknown captures render with the theme's fallback style.
func WithStrictCaptures() Option {
	return func(o *options) {
		o.strictCaptures = true
	}
}

// WithMaxSourceLen overrides the document size limit. Non-positive values
// keep the default.
func WithMaxSourceLen(n ByteOffset) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSourceLen = n
		}
	}
}
