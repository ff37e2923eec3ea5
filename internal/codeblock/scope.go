package codeblock

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/sliceutil"
)

// DefaultFoldClass is the scope class for folded regions.
const DefaultFoldClass = "code-folded"

// Directives is a pass that removes directive lines from code blocks
// and wraps the lines between them in scope elements.
//
// Given,
//
//	:::[class="added"]
//	foo
//	:::
//
// The line "foo" is wrapped in <span class="added">.
// Scopes may be nested.
// Consecutive lines in the same scopes share the same wrappers.
type Directives struct {
	// Marker that introduces directive lines.
	// Defaults to DefaultMarker.
	Marker string

	// ScopeTag is the element used for scopes. Defaults to "span".
	ScopeTag string

	// FoldClass is the class of scopes that represent folded regions.
	// These get a data-lines attribute with the number of lines inside.
	// Defaults to DefaultFoldClass.
	FoldClass string
}

// Apply interprets directives in all code blocks in the given nodes.
func (d *Directives) Apply(nodes []hast.Node) {
	applyPre(nodes, d.Pre)
}

// codeLine is a line of a code block
// and the "\n" node that terminated it, if any.
type codeLine struct {
	nodes   []hast.Node
	newline hast.Node
}

// renderLine is a non-directive line
// with the scopes that were open around it.
type renderLine struct {
	codeLine

	scopes []string
}

// Pre interprets directives in a single <pre> element.
// It does nothing if the element has no <code> child
// or if the code has no directives.
func (d *Directives) Pre(pre *hast.Element) {
	code := pre.FindChild("code")
	if code == nil {
		return
	}

	lines, ok := d.scanLines(splitTopLevel(code.Children))
	if !ok {
		return
	}

	code.Children = d.nest(lines)
}

// scanLines drops directive lines and records the scopes for the rest.
// It reports false if there were no directives.
func (d *Directives) scanLines(lines []codeLine) ([]renderLine, bool) {
	marker := cmp.Or(d.Marker, DefaultMarker)

	var (
		found  bool
		scopes []string
		render []renderLine
	)
	for _, line := range lines {
		dir, ok := ParseDirective(marker, hast.ToString(line.nodes...))
		if !ok {
			render = append(render, renderLine{
				codeLine: line,
				scopes:   slices.Clone(scopes),
			})
			continue
		}

		found = true
		if dir.Close {
			// An unbalanced close is ignored.
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		} else {
			scopes = append(scopes, dir.Classes...)
		}
	}
	return render, found
}

// nest arranges lines inside nested scope elements.
func (d *Directives) nest(lines []renderLine) []hast.Node {
	var (
		tag  = cmp.Or(d.ScopeTag, "span")
		fold = cmp.Or(d.FoldClass, DefaultFoldClass)

		root   hast.Element
		open   []*hast.Element // open[i] wraps names[i]
		names  []string
		folded []*hast.Element
	)
	top := func() *hast.Element {
		if len(open) == 0 {
			return &root
		}
		return open[len(open)-1]
	}

	for _, line := range lines {
		depth := sliceutil.CommonPrefixLen(line.scopes, names)
		open, names = open[:depth], names[:depth]

		for _, name := range line.scopes[depth:] {
			scope := hast.NewElement(tag, []string{name})
			parent := top()
			parent.Children = append(parent.Children, scope)
			open = append(open, scope)
			names = append(names, name)
			if name == fold {
				folded = append(folded, scope)
			}
		}

		parent := top()
		parent.Children = append(parent.Children, line.nodes...)
		if line.newline != nil {
			parent.Children = append(parent.Children, line.newline)
		}
	}

	for _, scope := range folded {
		n := strings.Count(hast.ToString(scope.Children...), "\n")
		scope.SetAttr("data-lines", strconv.Itoa(n))
	}

	return root.Children
}

// splitTopLevel splits the top-level text nodes of a code block on "\n"
// and groups the result into lines.
// Elements are not descended into.
func splitTopLevel(nodes []hast.Node) []codeLine {
	var (
		lines []codeLine
		cur   codeLine
	)
	endLine := func(newline hast.Node) {
		cur.newline = newline
		lines = append(lines, cur)
		cur = codeLine{}
	}

	for _, n := range nodes {
		t, ok := n.(*hast.Text)
		if !ok || !strings.Contains(t.Value, "\n") {
			cur.nodes = append(cur.nodes, n)
			continue
		}

		for i, part := range strings.Split(t.Value, "\n") {
			if i > 0 {
				endLine(hast.NewText("\n"))
			}
			if part != "" {
				cur.nodes = append(cur.nodes, hast.NewText(part))
			}
		}
	}
	if len(cur.nodes) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
