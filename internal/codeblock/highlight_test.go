package codeblock

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/highlight"
	"go.abhg.dev/codefence/internal/iotest"
)

// highlighterFunc is a Highlighter built from a function.
type highlighterFunc func(code, lang string) (string, error)

func (f highlighterFunc) Highlight(code, lang string) (string, error) {
	return f(code, lang)
}

// escapeHighlighter "highlights" code by escaping it.
var escapeHighlighter = highlighterFunc(func(code, _ string) (string, error) {
	return template.HTMLEscapeString(code), nil
})

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		give     string
		pass     Highlight
		wantCode string // code passed to the highlighter
		wantLang string
		want     string
	}{
		{
			desc:     "language",
			give:     "<pre><code class=\"language-go\">a\nb</code></pre>",
			wantCode: "a\nb",
			wantLang: "go",
			want: `<pre class="ts-highlighted"><code class="language-go">` +
				`<span class="line">a</span>` + "\n" +
				`<span class="line">b</span>` +
				`</code></pre>`,
		},
		{
			desc:     "default language",
			give:     "<pre><code>x</code></pre>",
			wantCode: "x",
			wantLang: "text",
			want:     `<pre class="ts-highlighted"><code><span class="line">x</span></code></pre>`,
		},
		{
			desc:     "markup in code",
			give:     "<pre><code class=\"language-sh\"><em>echo</em> &lt;hi&gt;</code></pre>",
			wantCode: "echo <hi>",
			wantLang: "sh",
			want: `<pre class="ts-highlighted"><code class="language-sh">` +
				`<span class="line">echo &lt;hi&gt;</span>` +
				`</code></pre>`,
		},
		{
			desc:     "trailing newline",
			give:     "<pre><code>a\nb\n</code></pre>",
			wantCode: "a\nb\n",
			wantLang: "text",
			want: `<pre class="ts-highlighted"><code>` +
				`<span class="line">a</span>` + "\n" +
				`<span class="line">b</span>` + "\n" +
				`<span class="line"></span>` +
				`</code></pre>`,
		},
		{
			desc:     "empty",
			give:     "<pre><code class=\"language-go\"></code></pre>",
			wantLang: "go",
			want:     `<pre class="ts-highlighted"><code class="language-go"></code></pre>`,
		},
		{
			desc: "custom classes",
			give: "<pre class=\"x\"><code>a</code></pre>",
			pass: Highlight{
				MarkClass: "done",
				LineTag:   "div",
				LineClass: "ln",
				PreClass:  "chroma",
			},
			wantCode: "a",
			wantLang: "text",
			want:     `<pre class="x done chroma"><code><div class="ln">a</div></code></pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var gotCode, gotLang string
			pass := tt.pass
			pass.Log = log.New(iotest.Writer(t), "", 0)
			pass.Highlighter = highlighterFunc(func(code, lang string) (string, error) {
				gotCode, gotLang = code, lang
				return escapeHighlighter(code, lang)
			})

			nodes := parseFragment(t, tt.give)
			pass.Apply(nodes)

			assert.Equal(t, tt.want, renderString(t, nodes...))
			assert.Equal(t, tt.wantCode, gotCode, "code")
			assert.Equal(t, tt.wantLang, gotLang, "language")
		})
	}
}

func TestHighlight_skip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
	}{
		{desc: "no code", give: "<pre>foo</pre>"},
		{desc: "code outside pre", give: "<p><code>foo</code></p>"},
		{
			desc: "already highlighted",
			give: `<pre class="ts-highlighted"><code>foo</code></pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			pass := Highlight{
				Highlighter: highlighterFunc(func(string, string) (string, error) {
					t.Errorf("highlighter must not be called")
					return "", nil
				}),
			}

			nodes := parseFragment(t, tt.give)
			pass.Apply(nodes)
			assert.Equal(t, tt.give, renderString(t, nodes...))
		})
	}
}

func TestHighlight_idempotent(t *testing.T) {
	t.Parallel()

	give := "<p>hi</p><pre><code class=\"language-go\">package foo\n\nfunc bar() {}</code></pre>"

	once := parseFragment(t, give)
	twice := parseFragment(t, give)

	pass := Highlight{Highlighter: new(highlight.Highlighter)}
	pass.Apply(once)
	pass.Apply(twice)
	pass.Apply(twice)

	assert.Equal(t, renderString(t, once...), renderString(t, twice...))
}

func TestHighlight_unsupportedLanguage(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	pass := Highlight{
		Highlighter: new(highlight.Highlighter),
		Log:         log.New(&logBuf, "", 0),
	}

	const src = "a < b\n  && c"
	nodes := parseFragment(t,
		`<pre><code class="language-klingon">`+template.HTMLEscapeString(src)+`</code></pre>`)
	pass.Apply(nodes)

	pre := nodes[0].(*hast.Element)
	code := pre.FindChild("code")
	require.NotNil(t, code)

	assert.True(t, pre.HasClass(DefaultMarkClass))
	assert.Equal(t, src, hast.ToString(code.Children...))
	assert.Len(t, cascadia.QueryAll(htmlDoc(code), cascadia.MustCompile("span.line")), 2)
	assert.Empty(t, logBuf.String(), "unsupported languages must not be reported")
}

func TestHighlight_failure(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	pass := Highlight{
		Highlighter: highlighterFunc(func(string, string) (string, error) {
			return "", errors.New("great sadness")
		}),
		Log: log.New(&logBuf, "", 0),
	}

	nodes := parseFragment(t,
		"<pre><code class=\"language-html\">&lt;script&gt;alert(1)&lt;/script&gt;\nok</code></pre>")
	pass.Apply(nodes)

	assert.Equal(t, "warning: highlight html block \"<script>alert(1)</script>\": great sadness\n", logBuf.String())

	doc := htmlDoc(nodes...)
	assert.Nil(t, cascadia.Query(doc, cascadia.MustCompile("script")),
		"fallback must not turn code into markup")

	var lines []string
	for _, n := range cascadia.QueryAll(doc, cascadia.MustCompile("code > span.line")) {
		lines = append(lines, hast.ToString(hast.FromHTML(n)...))
	}
	assert.Equal(t, []string{"<script>alert(1)</script>", "ok"}, lines)
}

func TestHighlight_chroma(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"/* a",
		"   b */",
		"x := `raw",
		"string`",
	}, "\n")
	nodes := parseFragment(t,
		`<pre><code class="language-go">`+template.HTMLEscapeString(src)+"\n</code></pre>")

	hl := highlight.Highlighter{ClassPrefix: "hl-"}
	pass := Highlight{
		Highlighter: &hl,
		Log:         log.New(iotest.Writer(t), "", 0),
		PreClass:    hl.WrapperClass(),
	}
	pass.Apply(nodes)

	doc := htmlDoc(nodes...)
	require.NotNil(t, cascadia.Query(doc, cascadia.MustCompile("pre.ts-highlighted.hl-chroma")))

	lines := cascadia.QueryAll(doc, cascadia.MustCompile("code > span.line"))
	require.Len(t, lines, 4, "trailing whitespace is dropped by the highlighter")

	for i, want := range strings.Split(src, "\n") {
		got := hast.FromHTML(lines[i])
		assert.Equal(t, want, hast.ToString(got...), "line %d", i)
	}

	// The block comment was split across the first two lines.
	comments := cascadia.QueryAll(doc, cascadia.MustCompile("span.line > span.hl-cm"))
	assert.Len(t, comments, 2)
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want string
	}{
		{desc: "no class", want: "text"},
		{desc: "language", give: []string{"language-rust"}, want: "rust"},
		{desc: "other classes", give: []string{"x", "language-js", "y"}, want: "js"},
		{desc: "empty language", give: []string{"language-"}, want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Language(hast.NewElement("code", tt.give)))
		})
	}
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "empty"},
		{desc: "single", give: "x := 1", want: "x := 1"},
		{desc: "skips blank", give: "\n  \n\tfoo()\nbar()", want: "foo()"},
		{
			desc: "truncated",
			give: strings.Repeat("é", 50),
			want: strings.Repeat("é", 40) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, firstLine(tt.give))
		})
	}
}
