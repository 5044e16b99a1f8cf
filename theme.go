package stormlight

import (
	"github.com/dshills/stormlight/internal/highlight"
	"github.com/dshills/stormlight/internal/style"
)

// Styling types, aliased from the internal packages.
type (
	// Theme maps categories to styles. See OneMonokai for the default.
	Theme = highlight.Theme

	// Category is the semantic class of a highlighted region.
	Category = highlight.Category

	// Style is a terminal style: colors plus attributes.
	Style = style.Style

	// Color is an RGB color, or the terminal default.
	Color = style.Color

	// Attribute is a bitmask of text attributes.
	Attribute = style.Attribute

	// ThemeWatcher reloads a theme file when it changes on disk.
	ThemeWatcher = highlight.ThemeWatcher
)

// Text attributes a style can carry.
const (
	AttrNone          = style.AttrNone
	AttrBold          = style.AttrBold
	AttrDim           = style.AttrDim
	AttrItalic        = style.AttrItalic
	AttrUnderline     = style.AttrUnderline
	AttrStrikethrough = style.AttrStrikethrough
)

// Theme file errors.
var (
	ErrThemeInvalid    = highlight.ErrThemeInvalid
	ErrUnknownCategory = highlight.ErrUnknownCategory
)

// The highlight categories a theme can style.
const (
	CategoryNone               = highlight.CategoryNone
	CategoryComment            = highlight.CategoryComment
	CategoryString             = highlight.CategoryString
	CategoryEscape             = highlight.CategoryEscape
	CategoryNumber             = highlight.CategoryNumber
	CategoryBoolean            = highlight.CategoryBoolean
	CategoryKeyword            = highlight.CategoryKeyword
	CategoryOperator           = highlight.CategoryOperator
	CategoryPunctuation        = highlight.CategoryPunctuation
	CategoryPunctuationSpecial = highlight.CategoryPunctuationSpecial
	CategoryFunction           = highlight.CategoryFunction
	CategoryFunctionBuiltin    = highlight.CategoryFunctionBuiltin
	CategoryMethod             = highlight.CategoryMethod
	CategoryConstructor        = highlight.CategoryConstructor
	CategoryConstant           = highlight.CategoryConstant
	CategoryVariable           = highlight.CategoryVariable
	CategoryVariableBuiltin    = highlight.CategoryVariableBuiltin
	CategoryParameter          = highlight.CategoryParameter
	CategoryProperty           = highlight.CategoryProperty
	CategoryType               = highlight.CategoryType
	CategoryLabel              = highlight.CategoryLabel
	CategoryEmbedded           = highlight.CategoryEmbedded
)

// Categories lists every category except CategoryNone.
func Categories() []Category { return highlight.Categories() }

// CategoryFromName resolves an exact category name. Unlike
// CategoryFromCapture it does no hierarchical fallback.
func CategoryFromName(name string) (Category, bool) { return highlight.CategoryFromName(name) }

// OneMonokai returns the default dark theme.
func OneMonokai() *Theme { return highlight.OneMonokai() }

// Monochrome returns an attribute-only theme.
func Monochrome() *Theme { return highlight.Monochrome() }

// LoadTheme loads a theme file, .lua via the sandboxed interpreter,
// anything else as JSON.
func LoadTheme(path string) (*Theme, error) { return highlight.LoadTheme(path) }

// SaveThemeFile writes a theme as JSON.
func SaveThemeFile(path string, t *Theme) error { return highlight.SaveThemeFile(path, t) }

// NewThemeWatcher starts watching a theme file for changes.
func NewThemeWatcher(path string) (*ThemeWatcher, error) {
	return highlight.NewThemeWatcher(path)
}

// CategoryFromCapture resolves a query capture name to its category,
// dropping dot segments until one matches.
func CategoryFromCapture(name string) Category {
	return highlight.CategoryFromCapture(name)
}

// ColorFromRGB creates a color from 8-bit channels.
func ColorFromRGB(r, g, b uint8) Color { return style.ColorFromRGB(r, g, b) }

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) { return style.ColorFromHex(hex) }

// DefaultStyle returns the terminal default style.
func DefaultStyle() Style { return style.DefaultStyle() }

// NewStyle returns a style with the given foreground.
func NewStyle(fg Color) Style { return style.NewStyle(fg) }
