// Package markdown converts Markdown posts into HTML trees.
//
// Posts may start with a front matter block describing the post.
// See [Meta].
// YAML front matter is delimited by "---", TOML by "+++",
// and JSON by ";;;".
package markdown

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	gmutil "github.com/yuin/goldmark/util"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/sliceutil"
	"gopkg.in/yaml.v3"
)

// Meta is the front matter of a post.
type Meta struct {
	// Title of the post, if specified.
	Title string `yaml:"title" toml:"title" json:"title"`

	// Description is a short summary of the post.
	Description string `yaml:"description" toml:"description" json:"description"`

	// Tags for the post.
	// After conversion, these are unique and sorted.
	Tags []string `yaml:"tags" toml:"tags" json:"tags"`

	// Draft posts are not published by default.
	Draft bool `yaml:"draft" toml:"draft" json:"draft"`
}

// _frontMatterFormats are the supported front matter delimiters.
// Unlike the frontmatter package's defaults,
// a document that starts with "{" is not treated as JSON.
var _frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
}

// Document is a converted Markdown document.
type Document struct {
	Meta Meta

	// Body of the document as an HTML tree.
	// Fenced code blocks are <pre><code class="language-*"> elements.
	Body []hast.Node
}

// LinkFunc rewrites the destination of a link or image.
// It reports false to leave the destination unchanged.
type LinkFunc func(dest string) (string, bool)

// Converter converts Markdown into HTML trees.
// It is safe for concurrent use.
//
// The zero value is ready to use.
type Converter struct {
	once sync.Once
	md   goldmark.Markdown
}

func (c *Converter) init() {
	c.once.Do(func() {
		c.md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(
					gmutil.Prioritized(new(linkRewriter), 100),
				),
			),
			goldmark.WithRendererOptions(
				// Output is sanitized after it's restructured.
				html.WithUnsafe(),
			),
		)
	})
}

// Convert parses a Markdown document with optional front matter.
//
// links, if non-nil, is used to rewrite relative link destinations.
func (c *Converter) Convert(src []byte, links LinkFunc) (*Document, error) {
	c.init()

	var doc Document
	body, err := frontmatter.Parse(bytes.NewReader(src), &doc.Meta, _frontMatterFormats...)
	if err != nil {
		return nil, errtrace.Errorf("front matter: %w", err)
	}
	doc.Meta.Tags = normalizeTags(doc.Meta.Tags)

	ctx := parser.NewContext()
	if links != nil {
		ctx.Set(_linkFuncKey, links)
	}

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return nil, errtrace.Errorf("render: %w", err)
	}

	doc.Body, err = hast.ParseFragment(buf.String())
	if err != nil {
		return nil, errtrace.Errorf("parse HTML: %w", err)
	}
	return &doc, nil
}

// normalizeTags trims, de-duplicates, and sorts tags.
// Empty tags are dropped.
func normalizeTags(tags []string) []string {
	out := slices.DeleteFunc(sliceutil.Transform(tags, strings.TrimSpace), func(tag string) bool {
		return tag == ""
	})
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
