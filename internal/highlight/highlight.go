package highlight

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"unicode"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
)

// Highlighter turns source code into highlighted HTML.
type Highlighter struct {
	// Style used for the generated stylesheet.
	// Defaults to PlainStyle.
	Style *chroma.Style

	// ClassPrefix is prepended to all CSS classes
	// generated by the highlighter.
	ClassPrefix string

	// Aliases maps additional language names
	// to the names of Chroma lexers.
	Aliases map[string]string

	once      sync.Once
	formatter *chromahtml.Formatter
	aliases   map[string]string // case-folded
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.ClassPrefix(h.ClassPrefix),
		)

		h.aliases = make(map[string]string, len(h.Aliases))
		for from, to := range h.Aliases {
			h.aliases[foldName(from)] = to
		}
	})
}

func (h *Highlighter) style() *chroma.Style {
	if h.Style != nil {
		return h.Style
	}
	return PlainStyle
}

// WrapperClass is the class that must be present on an ancestor
// of highlighted code for the stylesheet to apply.
func (h *Highlighter) WrapperClass() string {
	return h.ClassPrefix + chroma.StandardTypes[chroma.PreWrapper]
}

// WriteCSS writes the style classes for this highlighter to writer.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	return errtrace.Wrap(h.formatter.WriteCSS(w, h.style()))
}

// Highlight renders the given code as an HTML fragment.
// Trailing whitespace in the code is dropped.
//
// If there is no lexer for the language,
// Highlight returns an error matching ErrUnsupportedLanguage.
func (h *Highlighter) Highlight(code, lang string) (string, error) {
	h.init()

	lexer, err := LookupLexer(lang, h.aliases)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	code = strings.TrimRightFunc(code, unicode.IsSpace)
	tokens, err := lexer.Lex([]byte(code))
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("highlight %v: %w", lang, err))
	}

	var sb strings.Builder
	h.render(&sb, tokens, len(code))
	return sb.String(), nil
}

// render writes up to limit bytes of token text.
// Lexers may append a newline to the source;
// limit keeps it out of the output.
func (h *Highlighter) render(sb *strings.Builder, tokens []chroma.Token, limit int) {
	for _, tok := range tokens {
		value := tok.Value
		if len(value) > limit {
			value = value[:limit]
		}
		limit -= len(value)
		if len(value) == 0 {
			continue
		}

		class := h.class(tok.Type)
		if class == "" {
			template.HTMLEscape(sb, []byte(value))
			continue
		}

		fmt.Fprintf(sb, "<span class=%q>", class)
		template.HTMLEscape(sb, []byte(value))
		sb.WriteString("</span>")
	}
}

// class returns the CSS class for a token type,
// falling back to its parent types.
// Returns an empty string for plain text and whitespace.
func (h *Highlighter) class(t chroma.TokenType) string {
	if t == chroma.Whitespace {
		return ""
	}
	for t != 0 {
		if cls, ok := chroma.StandardTypes[t]; ok {
			if cls == "" {
				return ""
			}
			return h.ClassPrefix + cls
		}
		t = t.Parent()
	}
	return ""
}
