package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var _linkFuncKey = parser.NewContextKey()

// linkRewriter passes link and image destinations
// through the LinkFunc in the parser context, if any.
type linkRewriter struct{}

var _ parser.ASTTransformer = (*linkRewriter)(nil)

func (*linkRewriter) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	links, _ := pc.Get(_linkFuncKey).(LinkFunc)
	if links == nil {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Link:
			if dest, ok := links(string(n.Destination)); ok {
				n.Destination = []byte(dest)
			}
		case *ast.Image:
			if dest, ok := links(string(n.Destination)); ok {
				n.Destination = []byte(dest)
			}
		}
		return ast.WalkContinue, nil
	})
}
