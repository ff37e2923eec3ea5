package codeblock

import (
	"cmp"
	"errors"
	"html/template"
	"io"
	"log"
	"strings"

	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/highlight"
)

const (
	// DefaultMarkClass is added to <pre> elements
	// that have already been highlighted.
	DefaultMarkClass = "ts-highlighted"

	// DefaultLineClass is the class of the element
	// wrapping each line of a highlighted block.
	DefaultLineClass = "line"

	// DefaultLanguage is used for blocks that don't declare a language.
	DefaultLanguage = "text"

	_languagePrefix = "language-"
)

// Highlighter turns source code into an HTML fragment.
//
// Errors that match [highlight.ErrUnsupportedLanguage]
// are treated as expected and are not reported.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// Highlight is a pass that syntax-highlights code blocks
// and splits them into one element per line.
type Highlight struct {
	// Highlighter to use for code blocks. Required.
	Highlighter Highlighter

	// Log receives warnings about blocks that failed to highlight.
	// Defaults to discarding them.
	Log *log.Logger

	// MarkClass marks <pre> elements that were already processed.
	// Defaults to DefaultMarkClass.
	MarkClass string

	// LineTag and LineClass control the element wrapping each line.
	// They default to "span" and DefaultLineClass.
	LineTag   string
	LineClass string

	// PreClass is an additional class for highlighted <pre> elements,
	// if any. Stylesheets generated by the highlighter may need this.
	PreClass string
}

// Apply highlights all code blocks in the given nodes.
func (h *Highlight) Apply(nodes []hast.Node) {
	applyPre(nodes, h.Pre)
}

// Pre highlights a single <pre> element.
// It does nothing if the element has no <code> child
// or if it was already highlighted.
func (h *Highlight) Pre(pre *hast.Element) {
	mark := cmp.Or(h.MarkClass, DefaultMarkClass)
	if pre.HasClass(mark) {
		return
	}

	code := pre.FindChild("code")
	if code == nil {
		return
	}

	lang := Language(code)
	src := hast.ToString(code.Children...)
	out, err := h.Highlighter.Highlight(src, lang)
	if err != nil {
		if !errors.Is(err, highlight.ErrUnsupportedLanguage) {
			h.logger().Printf("warning: highlight %v block %q: %v", lang, firstLine(src), err)
		}
		out = template.HTMLEscapeString(src)
	}

	nodes, err := hast.ParseFragment(out)
	if err != nil {
		h.logger().Printf("warning: parse highlighted %v block: %v", lang, err)
		nodes = []hast.Node{hast.NewText(src)}
	}

	lineTag := cmp.Or(h.LineTag, "span")
	lineClass := cmp.Or(h.LineClass, DefaultLineClass)

	lines := SplitLines(nodes)
	children := make([]hast.Node, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			children = append(children, hast.NewText("\n"))
		}
		children = append(children, hast.NewElement(lineTag, []string{lineClass}, line...))
	}
	code.Children = children

	pre.AddClass(mark)
	if h.PreClass != "" {
		pre.AddClass(h.PreClass)
	}
}

func (h *Highlight) logger() *log.Logger {
	if h.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return h.Log
}

// Language reports the language declared on a <code> element
// with a "language-*" class.
// It returns DefaultLanguage if there is no such class.
func Language(code *hast.Element) string {
	for _, class := range code.Class {
		if lang, ok := strings.CutPrefix(class, _languagePrefix); ok && lang != "" {
			return lang
		}
	}
	return DefaultLanguage
}

// _maxSummary is the most runes of a block's first line
// included in warnings.
const _maxSummary = 40

// firstLine identifies a code block in diagnostics
// by its first non-blank line, truncated.
func firstLine(src string) string {
	var line string
	for l := range strings.Lines(src) {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if r := []rune(line); len(r) > _maxSummary {
		line = string(r[:_maxSummary]) + "..."
	}
	return line
}
