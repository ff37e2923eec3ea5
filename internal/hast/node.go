// Package hast is a small HTML syntax tree
// used to restructure rendered documents.
//
// A tree is made of [Node]s, which are one of [Element], [Text], or [Comment].
// Trees are converted to and from golang.org/x/net/html nodes
// for parsing and serialization.
package hast

import "slices"

type (
	// Node is a node in the HTML tree.
	Node interface{ node() }

	// Element is an HTML element with attributes and children.
	Element struct {
		// Tag is the lowercase name of the element, e.g. "pre".
		Tag string

		// Namespace is set for foreign content (svg, math).
		Namespace string

		// Class holds the tokens of the class attribute in order.
		Class []string

		// Attrs holds all other attributes.
		Attrs map[string]string

		// Children of the element, in document order.
		Children []Node
	}

	// Text is a run of character data.
	Text struct {
		Value string
	}

	// Comment is an HTML comment.
	Comment struct {
		Value string
	}
)

var (
	_ Node = (*Element)(nil)
	_ Node = (*Text)(nil)
	_ Node = (*Comment)(nil)
)

func (*Element) node() {}
func (*Text) node()    {}
func (*Comment) node() {}

// NewText builds a text node.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// NewElement builds an element with the given tag, classes, and children.
func NewElement(tag string, class []string, children ...Node) *Element {
	return &Element{
		Tag:      tag,
		Class:    class,
		Children: children,
	}
}

// ShallowClone returns a copy of the element
// with the same tag and attributes, but no children.
//
// Attributes are copied so that the clone may be modified
// independently of the original.
func (e *Element) ShallowClone() *Element {
	clone := Element{
		Tag:       e.Tag,
		Namespace: e.Namespace,
		Class:     slices.Clone(e.Class),
	}
	if len(e.Attrs) > 0 {
		clone.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			clone.Attrs[k] = v
		}
	}
	return &clone
}

// HasClass reports whether the element has the given class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Class, class)
}

// AddClass adds a class to the element if it isn't already present.
func (e *Element) AddClass(class string) {
	if !e.HasClass(class) {
		e.Class = append(e.Class, class)
	}
}

// Attr returns the value of the named attribute.
// The class attribute is not accessible with Attr.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// SetAttr sets the value of the named attribute.
func (e *Element) SetAttr(key, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
}

// FindChild returns the first direct child element with the given tag,
// or nil if there isn't one.
func (e *Element) FindChild(tag string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Tag == tag {
			return el
		}
	}
	return nil
}
