package markdown

import "go.abhg.dev/codefence/internal/hast"

var _headingTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
}

// LinkHeadings wraps the contents of headings that have an id
// in a link to that heading.
//
//	<h2 id="foo">Foo</h2>
//
// Becomes,
//
//	<h2 id="foo"><a href="#foo">Foo</a></h2>
func LinkHeadings(nodes []hast.Node) {
	hast.Walk(nodes, func(el *hast.Element) bool {
		if _, ok := _headingTags[el.Tag]; !ok {
			return true
		}

		id, ok := el.Attr("id")
		if !ok || id == "" || len(el.Children) == 0 {
			return false
		}

		a := hast.NewElement("a", nil, el.Children...)
		a.SetAttr("href", "#"+id)
		el.Children = []hast.Node{a}
		return false
	})
}
