package codeblock

import (
	"log"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/highlight"
	"go.abhg.dev/codefence/internal/iotest"
	"golang.org/x/net/html"
)

func TestPipeline(t *testing.T) {
	t.Parallel()

	nodes := parseFragment(t, "<pre><code>"+
		":::[class=&#34;added&#34;]\n"+
		"foo\n"+
		":::\n"+
		"bar"+
		"</code></pre>")

	Pipeline{
		&Highlight{Highlighter: escapeHighlighter},
		new(Directives),
	}.Apply(nodes)

	want := `<pre class="ts-highlighted"><code>` +
		`<span class="added"><span class="line">foo</span>` + "\n</span>" +
		`<span class="line">bar</span>` +
		`</code></pre>`
	assert.Equal(t, want, renderString(t, nodes...))
}

func TestPipeline_chroma(t *testing.T) {
	t.Parallel()

	nodes := parseFragment(t, `<h1>Example</h1>
<pre><code class="language-go">package main

:::[class="hl-blur"]
func main() {
:::[class="added"]
	fmt.Println("hello")
	fmt.Println("world")
:::
}
:::
</code></pre>
<pre><code class="language-unknown">:::[class=removed]
plain
:::
</code></pre>`)

	Pipeline{
		&Highlight{
			Highlighter: new(highlight.Highlighter),
			Log:         log.New(iotest.Writer(t), "", 0),
		},
		new(Directives),
	}.Apply(nodes)

	doc := htmlDoc(nodes...)
	blocks := cascadia.QueryAll(doc, cascadia.MustCompile("pre.ts-highlighted > code"))
	require.Len(t, blocks, 2)

	t.Run("highlighted", func(t *testing.T) {
		code := blocks[0]

		assert.Equal(t, []string{"package main", ""}, lineTexts(code, "code > span.line"))
		assert.Equal(t, []string{"func main() {", "}"}, lineTexts(code, "code > span.hl-blur > span.line"))
		assert.Equal(t,
			[]string{"\tfmt.Println(\"hello\")", "\tfmt.Println(\"world\")"},
			lineTexts(code, "span.hl-blur > span.added > span.line"))

		assert.NotContains(t, textOf(code), ":::", "directives must be removed")
	})

	t.Run("unsupported language", func(t *testing.T) {
		code := blocks[1]

		assert.Equal(t, []string{"plain"}, lineTexts(code, "code > span.removed > span.line"))
		assert.NotContains(t, textOf(code), ":::", "directives must be removed")
	})
}

func lineTexts(root *html.Node, selector string) []string {
	var lines []string
	for _, n := range cascadia.QueryAll(root, cascadia.MustCompile(selector)) {
		lines = append(lines, textOf(n))
	}
	return lines
}

func textOf(n *html.Node) string {
	return hast.ToString(hast.FromHTML(n)...)
}
