package stormlight

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gotreesitter"
	tsgrammars "github.com/odvcencio/gotreesitter/grammars"

	"github.com/dshills/stormlight/internal/syntax"
)

// Grammar pairs a tree-sitter language with its compiled highlight query.
//
// A Grammar is immutable and may be shared by any number of Documents;
// each Document still owns a private parser, so sharing a Grammar never
// shares mutable parse state.
type Grammar struct {
	name  string
	lang  *gotreesitter.Language
	query *syntax.Query
}

// NewGrammar compiles querySrc against lang. The name is informational
// (status lines, errors).
func NewGrammar(name string, lang *gotreesitter.Language, querySrc string) (*Grammar, error) {
	if lang == nil {
		return nil, ErrNoLanguage
	}
	query, err := syntax.NewQuery(querySrc, lang)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", name, err)
	}
	return &Grammar{name: name, lang: lang, query: query}, nil
}

// GrammarForLanguage builds a Grammar from a bundled language entry, using
// its stock highlight query.
func GrammarForLanguage(entry *tsgrammars.LangEntry) (*Grammar, error) {
	if entry == nil {
		return nil, ErrNoLanguage
	}
	if strings.TrimSpace(entry.HighlightQuery) == "" {
		return nil, fmt.Errorf("%w: %s has no highlight query", ErrQueryCompile, entry.Name)
	}
	lang := entry.Language()
	if lang == nil {
		return nil, fmt.Errorf("%w: %s failed to load", ErrNoLanguage, entry.Name)
	}
	return NewGrammar(entry.Name, lang, entry.HighlightQuery)
}

// GrammarForFile picks a bundled grammar from a file name.
func GrammarForFile(fileName string) (*Grammar, error) {
	entry := tsgrammars.DetectLanguage(fileName)
	if entry == nil {
		return nil, fmt.Errorf("%w: no grammar for %q", ErrNoLanguage, fileName)
	}
	return GrammarForLanguage(entry)
}

// GrammarForName picks a bundled grammar by language name,
// case-insensitively.
func GrammarForName(name string) (*Grammar, error) {
	languages := tsgrammars.AllLanguages()
	for i := range languages {
		if strings.EqualFold(languages[i].Name, name) {
			return GrammarForLanguage(&languages[i])
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoLanguage, name)
}

// Name returns the grammar's language name.
func (g *Grammar) Name() string {
	return g.name
}

// CaptureNames returns the capture names the highlight query can emit,
// sorted.
func (g *Grammar) CaptureNames() []string {
	return g.query.CaptureNames()
}
