package syntax

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gotreesitter"

	"github.com/dshills/stormlight/internal/textbuf"
)

// Capture is one named node range produced by the highlight query. Offsets
// are byte offsets into the parsed source.
type Capture struct {
	Start textbuf.ByteOffset
	End   textbuf.ByteOffset
	Name  string
}

// Range returns the capture's extent as a buffer range.
func (c Capture) Range() textbuf.Range {
	return textbuf.Range{Start: c.Start, End: c.End}
}

// Query is a compiled highlight query bound to one grammar. A Query is
// immutable after construction and safe to share across documents.
type Query struct {
	lang  *gotreesitter.Language
	query *gotreesitter.Query
	names []string
}

// NewQuery compiles src against lang.
func NewQuery(src string, lang *gotreesitter.Language) (*Query, error) {
	if lang == nil {
		return nil, ErrNoLanguage
	}
	q, err := gotreesitter.NewQuery(src, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryCompile, err)
	}
	return &Query{
		lang:  lang,
		query: q,
		names: scanCaptureNames(src),
	}, nil
}

// CaptureNames returns the capture names appearing in the query source,
// sorted and deduplicated. The list is derived from the source text, so it
// covers every name the query can emit.
func (q *Query) CaptureNames() []string {
	out := make([]string, len(q.names))
	copy(out, q.names)
	return out
}

// Captures runs the query over tree and returns one capture per matched
// node. When several patterns capture the same node, only the first
// capture the evaluator reports for that node survives. Zero-width nodes
// are dropped. Results are in evaluator order, not position order.
func (q *Query) Captures(tree *gotreesitter.Tree) []Capture {
	if tree == nil {
		return nil
	}
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	cursor := q.query.Exec(root, q.lang, tree.Source())
	seen := make(map[*gotreesitter.Node]struct{})
	var out []Capture
	for {
		c, ok := cursor.NextCapture()
		if !ok {
			break
		}
		node := c.Node
		if node == nil || node.StartByte() == node.EndByte() {
			continue
		}
		if _, dup := seen[node]; dup {
			continue
		}
		seen[node] = struct{}{}
		out = append(out, Capture{
			Start: textbuf.ByteOffset(node.StartByte()),
			End:   textbuf.ByteOffset(node.EndByte()),
			Name:  c.Name,
		})
	}
	return out
}

// scanCaptureNames extracts the @name tokens from query source, skipping
// string literals and ; comments so quoted text cannot masquerade as a
// capture.
func scanCaptureNames(src string) []string {
	set := make(map[string]struct{})
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"':
			for i++; i < len(src); i++ {
				if src[i] == '\\' {
					i++
					continue
				}
				if src[i] == '"' {
					break
				}
			}
		case ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '@':
			start := i + 1
			j := start
			for j < len(src) && isCaptureNameChar(src[j]) {
				j++
			}
			if j > start {
				set[src[start:j]] = struct{}{}
			}
			i = j - 1
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isCaptureNameChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
