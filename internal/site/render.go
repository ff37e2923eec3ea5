package site

import (
	"bytes"
	"cmp"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"braces.dev/errtrace"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/highlight"
	"go.abhg.dev/codefence/internal/relative"
)

const (
	_staticDir = "_"
	_tagsDir   = "tags"
)

// SearchDir is the directory, relative to the root of the site,
// where the search index is expected.
const SearchDir = _staticDir + "/pagefind"

// SearchGlob matches the pages that should be indexed for search.
// Tag pages and the home page only list posts.
const SearchGlob = "*/index.html"

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	//go:embed static/**
	_staticFS embed.FS

	// Unusable function references at parse time,
	// and then Clone and replace at render time.
	// This way, template validity is still
	// verified at init.
	_postTmpl = template.Must(
		template.New("post.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/post.html", "tmpl/layout.html", "tmpl/list.html"),
	)

	_indexTmpl = template.Must(
		template.New("index.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/index.html", "tmpl/layout.html", "tmpl/list.html"),
	)

	_tagTmpl = template.Must(
		template.New("tag.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/tag.html", "tmpl/layout.html", "tmpl/list.html"),
	)
)

// Highlighter generates the stylesheet for highlighted code.
type Highlighter interface {
	WriteCSS(io.Writer) error
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// Renderer renders pages of the site into HTML.
type Renderer struct {
	// Title of the site.
	Title string

	// Highlighter generates the stylesheet for code blocks.
	Highlighter Highlighter

	// Sanitizer, if set, cleans up post bodies before they're rendered.
	Sanitizer *Sanitizer

	// Search adds a search box to every page.
	// The search index must be built separately into SearchDir.
	Search bool
}

// WriteStatic dumps the contents of static/ into the given directory.
func (r *Renderer) WriteStatic(dir string) error {
	dir = filepath.Join(dir, _staticDir)
	static, err := fs.Sub(_staticFS, "static")
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == "." {
			return err
		}

		outPath := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o1755)
		}

		bs, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}

		// The highlighter's styles go at the end of main.css
		// so that there's one stylesheet to load.
		if path == "css/main.css" && r.Highlighter != nil {
			buff := bytes.NewBuffer(bs)
			buff.WriteString("\n")
			if err := r.Highlighter.WriteCSS(buff); err != nil {
				return err
			}
			bs = buff.Bytes()
		}

		return os.WriteFile(outPath, bs, 0o644)
	}))
}

// PostPage holds the data needed to render a single post.
type PostPage struct {
	*Post

	// Content is the rendered body of the post.
	Content template.HTML
}

// RenderPost renders the page for a post.
func (r *Renderer) RenderPost(w io.Writer, post *Post) error {
	body, err := hast.RenderString(post.Body...)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if r.Sanitizer != nil {
		body = r.Sanitizer.Sanitize(body)
	}

	return r.execute(w, _postTmpl, post.Path(), &PostPage{
		Post:    post,
		Content: template.HTML(body),
	})
}

// Index holds the data needed to render the home page.
type Index struct {
	// Posts, newest first.
	Posts []*Post

	// Tags used by the posts, most common first.
	Tags []TagCount
}

// RenderIndex renders the home page of the site.
func (r *Renderer) RenderIndex(w io.Writer, idx *Index) error {
	return r.execute(w, _indexTmpl, "", idx)
}

// TagIndex holds the data needed to render the page for a tag.
type TagIndex struct {
	Tag   string
	Posts []*Post
}

// RenderTag renders the list of posts for a tag.
func (r *Renderer) RenderTag(w io.Writer, idx *TagIndex) error {
	return r.execute(w, _tagTmpl, TagPath(idx.Tag), idx)
}

// TagPath is the path to the page for a tag in the generated site.
// Characters that aren't safe in both URLs and file names
// are replaced with '-'.
func TagPath(tag string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case strings.ContainsRune("-_.+", r):
			return r
		default:
			return '-'
		}
	}, tag)
	if strings.Trim(slug, ".") == "" {
		slug = strings.Repeat("-", len(slug))
	}
	return path.Join(_tagsDir, slug)
}

func (r *Renderer) execute(w io.Writer, tmpl *template.Template, pagePath string, data any) error {
	render := render{
		Title:  cmp.Or(r.Title, "Blog"),
		Path:   pagePath,
		Search: r.Search,
	}
	return errtrace.Wrap(template.Must(tmpl.Clone()).
		Funcs(render.FuncMap()).
		ExecuteTemplate(w, "Page", data))
}

type render struct {
	// Title of the site.
	Title string

	// Path of the page being rendered from the root of the site.
	Path string

	Search bool
}

func (r *render) FuncMap() template.FuncMap {
	return template.FuncMap{
		"siteTitle":   func() string { return r.Title },
		"search":      func() bool { return r.Search },
		"static":      r.static,
		"searchAsset": r.searchAsset,
		"link":        r.link,
		"tagLink":     r.tagLink,
		"date":        formatDate,
		"isoDate":     isoDate,
	}
}

// link returns a relative link to the page at p.
func (r *render) link(p string) string {
	rel := relative.Path(r.Path, p)
	if rel == "" {
		rel = "."
	}
	return rel + "/"
}

func (r *render) tagLink(tag string) string {
	return r.link(TagPath(tag))
}

func (r *render) static(p string) string {
	return relative.Path(r.Path, path.Join(_staticDir, p))
}

func (r *render) searchAsset(p string) string {
	return relative.Path(r.Path, path.Join(SearchDir, p))
}

func formatDate(t time.Time) string {
	// Post dates are calendar days with no time zone.
	return t.UTC().Format("Monday, January 2, 2006")
}

func isoDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
