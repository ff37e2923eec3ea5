package hast

import (
	"fmt"
	"strings"
)

// Walk visits all elements in the given forest in depth-first order.
//
// fn may replace the visited element's children.
// Walk descends into the new children afterwards
// unless fn returns false.
func Walk(nodes []Node, fn func(*Element) bool) {
	for _, n := range nodes {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if fn(el) {
			Walk(el.Children, fn)
		}
	}
}

// ToString returns the text content of the given nodes:
// the concatenation of all descendant text nodes.
// Comments do not contribute to the text content.
func ToString(nodes ...Node) string {
	var sb strings.Builder
	writeText(&sb, nodes)
	return sb.String()
}

func writeText(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Value)
		case *Element:
			writeText(sb, n.Children)
		case *Comment:
			// no text content
		default:
			panic(fmt.Sprintf("unrecognized node type %T", n))
		}
	}
}
