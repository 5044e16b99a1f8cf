package highlight

import (
	"github.com/dshills/stormlight/internal/style"
)

// Theme maps categories to terminal styles.
//
// A Theme is immutable after construction and safe for concurrent reads.
// Styled categories render with their mapped style, hidden categories
// render with no style at all, and everything else falls back to Fallback,
// which marks captures the theme never anticipated.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the editor background color.
	Background style.Color

	// Fallback is the style for categories the theme does not map.
	Fallback style.Style

	// Styles maps categories to their styles.
	Styles map[Category]style.Style

	// Hidden marks categories that render unstyled.
	Hidden map[Category]bool
}

// Resolve returns the style for a category. The second return is false
// only for hidden categories; unmapped categories resolve to the fallback
// style rather than erroring.
func (t *Theme) Resolve(c Category) (style.Style, bool) {
	if t.Hidden[c] {
		return style.Style{}, false
	}
	if s, ok := t.Styles[c]; ok {
		return s, true
	}
	return t.Fallback, true
}

// ResolveCapture resolves a raw capture name through CategoryFromCapture.
func (t *Theme) ResolveCapture(name string) (style.Style, bool) {
	return t.Resolve(CategoryFromCapture(name))
}

// Clone returns a deep copy the caller may alter freely.
func (t *Theme) Clone() *Theme {
	styles := make(map[Category]style.Style, len(t.Styles))
	for c, s := range t.Styles {
		styles[c] = s
	}
	hidden := make(map[Category]bool, len(t.Hidden))
	for c, h := range t.Hidden {
		hidden[c] = h
	}
	return &Theme{
		Name:       t.Name,
		Background: t.Background,
		Fallback:   t.Fallback,
		Styles:     styles,
		Hidden:     hidden,
	}
}

// OneMonokai returns the default dark theme. Categories the palette never
// anticipated (punctuation, labels, booleans) borrow from their nearest
// relatives.
func OneMonokai() *Theme {
	blue := style.ColorFromRGB(0x61, 0xaf, 0xef)
	cyan := style.ColorFromRGB(0x56, 0xb6, 0xc2)
	green := style.ColorFromRGB(0x98, 0xc3, 0x79)
	fg := style.ColorFromRGB(0xab, 0xb2, 0xbf)
	purple := style.ColorFromRGB(0xc6, 0x78, 0xdd)
	gray := style.ColorFromRGB(0x67, 0x6f, 0x7d)
	yellow := style.ColorFromRGB(0xe5, 0xc0, 0x7b)
	red := style.ColorFromRGB(0xe0, 0x6c, 0x75)

	return &Theme{
		Name:       "one-monokai",
		Background: style.ColorFromRGB(0x28, 0x2c, 0x34),
		Fallback:   style.DefaultStyle().Underline(),
		Styles: map[Category]style.Style{
			CategoryComment: style.NewStyle(gray),
			CategoryString:  style.NewStyle(yellow),
			CategoryEscape:  style.NewStyle(cyan),
			CategoryNumber:  style.NewStyle(purple),
			CategoryBoolean: style.NewStyle(cyan),

			CategoryKeyword:            style.NewStyle(red),
			CategoryOperator:           style.NewStyle(red),
			CategoryPunctuation:        style.NewStyle(fg),
			CategoryPunctuationSpecial: style.NewStyle(purple),

			CategoryFunction:        style.NewStyle(green),
			CategoryFunctionBuiltin: style.NewStyle(green),
			CategoryMethod:          style.NewStyle(green),
			CategoryConstructor:     style.NewStyle(blue),

			CategoryConstant:        style.NewStyle(cyan),
			CategoryVariable:        style.NewStyle(blue),
			CategoryVariableBuiltin: style.NewStyle(blue),
			CategoryParameter:       style.NewStyle(blue),
			CategoryProperty:        style.NewStyle(fg),
			CategoryType:            style.NewStyle(blue),
			CategoryLabel:           style.NewStyle(red),

			CategoryEmbedded: style.NewStyle(purple),
		},
		Hidden: map[Category]bool{},
	}
}

// Monochrome returns an attribute-only theme for terminals without color
// support. It is also convenient in tests, where color equality is noise.
func Monochrome() *Theme {
	return &Theme{
		Name:       "monochrome",
		Background: style.ColorDefault,
		Fallback:   style.DefaultStyle().Underline(),
		Styles: map[Category]style.Style{
			CategoryComment: style.DefaultStyle().Dim(),
			CategoryString:  style.DefaultStyle().Italic(),
			CategoryEscape:  style.DefaultStyle().Italic().Bold(),
			CategoryNumber:  style.DefaultStyle(),
			CategoryBoolean: style.DefaultStyle().Bold(),

			CategoryKeyword:            style.DefaultStyle().Bold(),
			CategoryOperator:           style.DefaultStyle(),
			CategoryPunctuation:        style.DefaultStyle(),
			CategoryPunctuationSpecial: style.DefaultStyle().Bold(),

			CategoryFunction:        style.DefaultStyle().Bold(),
			CategoryFunctionBuiltin: style.DefaultStyle().Bold(),
			CategoryMethod:          style.DefaultStyle().Bold(),
			CategoryConstructor:     style.DefaultStyle().Bold(),

			CategoryConstant:        style.DefaultStyle(),
			CategoryVariable:        style.DefaultStyle(),
			CategoryVariableBuiltin: style.DefaultStyle(),
			CategoryParameter:       style.DefaultStyle(),
			CategoryProperty:        style.DefaultStyle(),
			CategoryType:            style.DefaultStyle().Bold(),
			CategoryLabel:           style.DefaultStyle(),

			CategoryEmbedded: style.DefaultStyle(),
		},
		Hidden: map[Category]bool{},
	}
}
