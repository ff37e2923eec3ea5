package codeblock

import "go.abhg.dev/codefence/internal/hast"

// Pass transforms a single <pre> element.
//
// Both [Highlight] and [Directives] are passes.
type Pass interface {
	Pre(*hast.Element)
}

var (
	_ Pass = (*Highlight)(nil)
	_ Pass = (*Directives)(nil)
)

// Pipeline is a sequence of passes applied to each code block in order.
//
// When highlighting and directives are used together,
// Highlight must come first:
// Directives then operates on the highlighted lines.
type Pipeline []Pass

// Apply runs all passes over each <pre> element in the given nodes.
// Blocks are processed one at a time and independently of each other.
func (p Pipeline) Apply(nodes []hast.Node) {
	applyPre(nodes, func(pre *hast.Element) {
		for _, pass := range p {
			pass.Pre(pre)
		}
	})
}

// applyPre calls fn on each <pre> element in nodes.
// <pre> elements nested inside other <pre> elements are not visited.
func applyPre(nodes []hast.Node, fn func(*hast.Element)) {
	hast.Walk(nodes, func(el *hast.Element) bool {
		if el.Tag != "pre" {
			return true
		}
		fn(el)
		return false
	})
}
