package hast

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// _fragmentContext is the element inside which fragments are parsed.
var _fragmentContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// ParseFragment parses an HTML fragment
// as if it were the contents of a <body> element.
func ParseFragment(s string) ([]Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(s), _fragmentContext)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return FromHTML(nodes...), nil
}

// FromHTML converts golang.org/x/net/html nodes into a tree.
//
// Document and doctype nodes are unwrapped or dropped:
// only their element, text, and comment descendants are kept.
func FromHTML(nodes ...*html.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = appendHTML(out, n)
	}
	return out
}

func appendHTML(out []Node, n *html.Node) []Node {
	switch n.Type {
	case html.TextNode:
		return append(out, &Text{Value: n.Data})

	case html.CommentNode:
		return append(out, &Comment{Value: n.Data})

	case html.ElementNode:
		el := Element{
			Tag:       n.Data,
			Namespace: n.Namespace,
		}
		for _, attr := range n.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			if key == "class" {
				el.Class = strings.Fields(attr.Val)
				continue
			}
			el.SetAttr(key, attr.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			el.Children = appendHTML(el.Children, c)
		}
		return append(out, &el)

	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			out = appendHTML(out, c)
		}
		return out

	default:
		// Doctypes and raw nodes have no place in a fragment.
		return out
	}
}

// ToHTML converts a tree into a golang.org/x/net/html node.
//
// The class attribute is always emitted first,
// followed by other attributes in lexical order.
func ToHTML(n Node) *html.Node {
	switch n := n.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: n.Value}

	case *Comment:
		return &html.Node{Type: html.CommentNode, Data: n.Value}

	case *Element:
		hn := &html.Node{
			Type:      html.ElementNode,
			Data:      n.Tag,
			DataAtom:  atom.Lookup([]byte(n.Tag)),
			Namespace: n.Namespace,
		}
		if len(n.Class) > 0 {
			hn.Attr = append(hn.Attr, html.Attribute{
				Key: "class",
				Val: strings.Join(n.Class, " "),
			})
		}
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
		}
		for _, c := range n.Children {
			hn.AppendChild(ToHTML(c))
		}
		return hn

	default:
		panic(fmt.Sprintf("unrecognized node type %T", n))
	}
}

// Render writes the given nodes as HTML to w.
func Render(w io.Writer, nodes ...Node) error {
	for _, n := range nodes {
		if err := html.Render(w, ToHTML(n)); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// RenderString renders the given nodes as an HTML string.
func RenderString(nodes ...Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, nodes...); err != nil {
		return "", errtrace.Wrap(err)
	}
	return buf.String(), nil
}
