package codeblock

import (
	"fmt"
	"strings"

	"go.abhg.dev/codefence/internal/hast"
)

// SplitLines splits a sequence of nodes into lines on "\n".
//
// Elements whose contents span multiple lines are cloned once per line,
// each clone holding only the part of its children on that line.
// Every line is therefore well-formed on its own.
// Comments and childless elements are never split.
//
// Text that ends with a newline produces a trailing empty line.
// An input with no content at all produces no lines.
func SplitLines(nodes []hast.Node) [][]hast.Node {
	lines := splitNodes(nodes)
	if len(lines) == 1 && len(lines[0]) == 0 {
		return nil
	}
	return lines
}

// splitNodes splits nodes into segments.
// There is always at least one segment,
// and one more for every newline inside nodes.
func splitNodes(nodes []hast.Node) [][]hast.Node {
	segments := make([][]hast.Node, 1)
	for _, n := range nodes {
		parts := splitNode(n)
		last := len(segments) - 1
		segments[last] = append(segments[last], parts[0]...)
		segments = append(segments, parts[1:]...)
	}
	return segments
}

func splitNode(n hast.Node) [][]hast.Node {
	switch n := n.(type) {
	case *hast.Text:
		parts := strings.Split(n.Value, "\n")
		segments := make([][]hast.Node, len(parts))
		for i, part := range parts {
			if part != "" {
				segments[i] = []hast.Node{hast.NewText(part)}
			}
		}
		return segments

	case *hast.Element:
		if len(n.Children) == 0 {
			return [][]hast.Node{{n}}
		}

		segments := splitNodes(n.Children)
		for i, children := range segments {
			if len(children) == 0 {
				continue
			}
			clone := n.ShallowClone()
			clone.Children = children
			segments[i] = []hast.Node{clone}
		}
		return segments

	case *hast.Comment:
		return [][]hast.Node{{n}}

	default:
		panic(fmt.Sprintf("unrecognized node type %T", n))
	}
}
