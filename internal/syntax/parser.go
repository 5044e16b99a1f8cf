package syntax

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gotreesitter"
)

// Sentinel errors for parser and query setup.
var (
	// ErrNoLanguage indicates a parser or query was requested without a
	// grammar.
	ErrNoLanguage = errors.New("no language")

	// ErrQueryCompile indicates a highlight query failed to compile
	// against its grammar.
	ErrQueryCompile = errors.New("query compile failed")

	// ErrReparse indicates parsing failed and the syntax tree was
	// discarded. Highlighting stays suppressed until a later parse
	// succeeds.
	ErrReparse = errors.New("reparse failed")
)

// Parser owns a tree-sitter parser and the syntax tree for a single
// document. It is not safe for concurrent use; the owning document
// serializes access.
//
// The tree moves through three states: unparsed (before the first parse or
// after a failed one), current (tree matches the last parsed source), and
// stale (ApplyEdit recorded a pending change the tree has not absorbed
// yet). Reparse returns the parser to the current state, or to unparsed on
// failure.
type Parser struct {
	lang   *gotreesitter.Language
	parser *gotreesitter.Parser
	tree   *gotreesitter.Tree
	stale  bool
}

// NewParser creates a parser for lang.
func NewParser(lang *gotreesitter.Language) (*Parser, error) {
	if lang == nil {
		return nil, ErrNoLanguage
	}
	return &Parser{
		lang:   lang,
		parser: gotreesitter.NewParser(lang),
	}, nil
}

// ParseInitial parses src from scratch, discarding any existing tree.
func (p *Parser) ParseInitial(src []byte) error {
	p.Clear()
	return p.Reparse(src)
}

// ApplyEdit records a structural edit against the current tree so the next
// Reparse can reuse unchanged subtrees. It shifts node positions only; the
// tree is stale until Reparse runs. Without a tree it is a no-op.
func (p *Parser) ApplyEdit(edit gotreesitter.InputEdit) {
	if p.tree == nil {
		return
	}
	p.tree.Edit(edit)
	p.stale = true
}

// Reparse parses src, reusing the current tree when one exists. On failure
// the old tree is released and the parser falls back to the unparsed
// state; a stale tree is never kept around.
func (p *Parser) Reparse(src []byte) error {
	old := p.tree

	var (
		tree *gotreesitter.Tree
		err  error
	)
	if old != nil {
		tree, err = p.parser.ParseIncremental(src, old)
	} else {
		tree, err = p.parser.Parse(src)
	}

	if err != nil || tree == nil || tree.RootNode() == nil {
		if tree != nil && tree != old {
			tree.Release()
		}
		if old != nil {
			old.Release()
		}
		p.tree = nil
		p.stale = false
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReparse, err)
		}
		return ErrReparse
	}

	if old != nil && old != tree {
		old.Release()
	}
	p.tree = tree
	p.stale = false
	return nil
}

// Tree returns the current syntax tree, or nil when unparsed. The tree may
// be stale; check Stale before querying it.
func (p *Parser) Tree() *gotreesitter.Tree {
	return p.tree
}

// HasTree reports whether a syntax tree is available.
func (p *Parser) HasTree() bool {
	return p.tree != nil
}

// Stale reports whether the tree has absorbed an edit that has not been
// reparsed yet. A stale tree must not feed the query stage.
func (p *Parser) Stale() bool {
	return p.tree != nil && p.stale
}

// Clear releases the current tree and returns to the unparsed state.
func (p *Parser) Clear() {
	if p.tree != nil {
		p.tree.Release()
		p.tree = nil
	}
	p.stale = false
}

// Language returns the grammar this parser was built for.
func (p *Parser) Language() *gotreesitter.Language {
	return p.lang
}
