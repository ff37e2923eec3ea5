package codeblock

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultMarker introduces directive lines.
const DefaultMarker = ":::"

// Directive is a parsed directive line.
//
// A directive either closes the innermost open scope,
//
//	:::
//
// or opens one scope per class attribute, in order.
//
//	:::[class="added"]
type Directive struct {
	// Close is set for directives that close a scope.
	Close bool

	// Classes opened by the directive.
	Classes []string
}

var _attrGroupRe = regexp.MustCompile(`\[(.*?)\]`)

// ParseDirective reports whether the given line of text
// is a directive introduced by marker, and parses it if so.
// Leading and trailing whitespace is ignored.
//
// A line that contains the marker but is neither a close
// nor has any [class=...] groups is not a directive.
// Attributes other than class are ignored.
func ParseDirective(marker, text string) (d Directive, ok bool) {
	text = strings.TrimSpace(text)
	if marker == "" || !strings.Contains(text, marker) {
		return d, false
	}

	if strings.HasSuffix(text, marker) && !strings.Contains(text, "[") {
		return Directive{Close: true}, true
	}

	for _, m := range _attrGroupRe.FindAllStringSubmatch(text, -1) {
		key, value, found := strings.Cut(m[1], "=")
		if !found || !isClassKey(key) {
			continue
		}
		d.Classes = append(d.Classes, unquote(strings.TrimSpace(value)))
	}
	return d, len(d.Classes) > 0
}

func isClassKey(key string) bool {
	// Casers are stateful so we need a fresh one for each call.
	return cases.Fold().String(strings.TrimSpace(key)) == "class"
}

// unquote strips one level of matching single or double quotes.
// A lone quote unquotes to the empty string.
func unquote(s string) string {
	if s == "" {
		return s
	}
	if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
		if len(s) == 1 {
			return ""
		}
		return s[1 : len(s)-1]
	}
	return s
}
