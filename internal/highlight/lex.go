package highlight

import (
	"errors"
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/text/cases"
)

// ErrUnsupportedLanguage matches errors returned by [Highlighter.Highlight]
// for languages that it does not have a lexer for.
//
//	if errors.Is(err, highlight.ErrUnsupportedLanguage) {
//		...
//	}
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError is returned when a code block
// asks for a language that has no lexer.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return "unsupported language: " + e.Language
}

// Is reports whether target is ErrUnsupportedLanguage.
func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// Lexer analyzes source code and generates a stream of tokens.
type Lexer interface {
	Lex(src []byte) ([]chroma.Token, error)
}

// chromaLexer builds a [Lexer] from a Chroma lexer.
type chromaLexer struct{ l chroma.Lexer }

// Lex lexically analyzes the given source code using Chroma.
func (cl *chromaLexer) Lex(src []byte) ([]chroma.Token, error) {
	return chroma.Tokenise(cl.l, nil, string(src))
}

// _builtinAliases maps language names commonly used on code fences
// that Chroma doesn't know by that name.
var _builtinAliases = map[string]string{
	"javascriptreact": "react",
	"typescriptreact": "tsx",
	"mdx":             "markdown",
}

// LookupLexer finds a lexer for the given language name.
//
// Names are matched case-insensitively.
// aliases, if non-nil, is consulted before the built-in aliases;
// its keys must already be case-folded.
func LookupLexer(lang string, aliases map[string]string) (Lexer, error) {
	name := foldName(lang)
	if alias, ok := aliases[name]; ok {
		name = alias
	} else if alias, ok := _builtinAliases[name]; ok {
		name = alias
	}

	l := lexers.Get(name)
	if l == nil {
		return nil, errtrace.Wrap(&UnsupportedLanguageError{Language: lang})
	}
	return &chromaLexer{l: chroma.Coalesce(l)}, nil
}

func foldName(s string) string {
	// Casers are stateful so we need a fresh one for each call.
	return cases.Fold().String(strings.TrimSpace(s))
}
