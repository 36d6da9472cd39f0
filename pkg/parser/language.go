package parser

import (
	"path/filepath"
	"strings"
)

// Language is a grammar family the snippet analyzer can parse.
type Language int

const (
	// LanguageTypeScript covers .ts and .tsx snippets.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js and .jsx snippets.
	LanguageJavaScript
	// LanguageUnknown is anything else.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Dialect is a Language plus the JSX switch that selects the TSX grammar.
type Dialect struct {
	Lang  Language
	IsTSX bool
}

func (d Dialect) String() string {
	if d.IsTSX {
		return "tsx"
	}
	return d.Lang.String()
}

// DetectDialect picks the grammar from a file name. Snippets are stored as
// code.tsx and usage.tsx, so .tsx is the common case.
func DetectDialect(fileName string) Dialect {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".tsx":
		return Dialect{Lang: LanguageTypeScript, IsTSX: true}
	case ".ts", ".mts", ".cts":
		return Dialect{Lang: LanguageTypeScript}
	case ".js", ".jsx", ".mjs", ".cjs":
		// The JavaScript grammar parses JSX natively.
		return Dialect{Lang: LanguageJavaScript}
	default:
		return Dialect{Lang: LanguageUnknown}
	}
}

// ParseLanguageString converts a language name to a Language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "typescript", "ts", "tsx":
		return LanguageTypeScript
	case "javascript", "js", "jsx":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}
