package main

import (
	"context"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/codefence/internal/codeblock"
	"go.abhg.dev/codefence/internal/errdefer"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/markdown"
	"go.abhg.dev/codefence/internal/pagefind"
	"go.abhg.dev/codefence/internal/site"
	"golang.org/x/sync/errgroup"
)

// Converter parses the source of a post.
type Converter interface {
	Convert(src []byte, links markdown.LinkFunc) (*markdown.Document, error)
}

var _ Converter = (*markdown.Converter)(nil)

// Transformer restructures the HTML tree of a post.
// It must be safe for concurrent use.
type Transformer interface {
	Apply([]hast.Node)
}

var _ Transformer = (codeblock.Pipeline)(nil)

// Renderer renders pages of the site to HTML.
type Renderer interface {
	WriteStatic(string) error
	RenderPost(io.Writer, *site.Post) error
	RenderIndex(io.Writer, *site.Index) error
	RenderTag(io.Writer, *site.TagIndex) error
}

var _ Renderer = (*site.Renderer)(nil)

// Indexer builds a search index for a generated site.
type Indexer interface {
	Index(context.Context, pagefind.IndexRequest) error
}

var _ Indexer = (*pagefind.CLI)(nil)

// Generator builds the website for a directory of posts.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Log         *log.Logger
	Converter   Converter
	Transformer Transformer
	Renderer    Renderer

	// Indexer, if set, builds a search index
	// after the site is generated.
	Indexer Indexer

	PostsDir string
	OutDir   string

	// Drafts includes posts marked as drafts.
	Drafts bool

	// Exclude lists patterns for post directories to skip.
	Exclude []string
}

// Generate builds the website.
// It may be called again to rebuild it.
func (g *Generator) Generate(ctx context.Context) error {
	refs, err := site.FindPosts(os.DirFS(g.PostsDir), g.Exclude...)
	if err != nil {
		return errtrace.Wrap(err)
	}
	g.Log.Printf("Found %d posts in %v", len(refs), g.PostsDir)

	posts, err := g.loadPosts(ctx, refs)
	if err != nil {
		return errtrace.Wrap(err)
	}
	site.SortPosts(posts)

	if err := os.MkdirAll(g.OutDir, 0o1755); err != nil {
		return errtrace.Wrap(err)
	}
	if err := g.Renderer.WriteStatic(g.OutDir); err != nil {
		return errtrace.Wrap(err)
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, post := range posts {
		eg.Go(func() error {
			return errtrace.Wrap(g.writePost(post))
		})
	}
	if err := eg.Wait(); err != nil {
		return errtrace.Wrap(err)
	}

	if err := g.writeIndexes(posts); err != nil {
		return errtrace.Wrap(err)
	}

	if g.Indexer != nil {
		g.Log.Printf("Building search index")
		err := g.Indexer.Index(ctx, pagefind.IndexRequest{
			SiteDir:     g.OutDir,
			AssetSubdir: site.SearchDir,
			Glob:        site.SearchGlob,
		})
		if err != nil {
			return errtrace.Wrap(err)
		}
	}

	return nil
}

// loadPosts reads, converts, and transforms posts concurrently.
// Drafts are dropped unless requested.
func (g *Generator) loadPosts(ctx context.Context, refs []site.PostRef) ([]*site.Post, error) {
	posts := make([]*site.Post, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, ref := range refs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errtrace.Wrap(err)
			}

			post, err := g.loadPost(ref)
			if err != nil {
				return errtrace.Wrap(err)
			}
			posts[i] = post
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	return slices.DeleteFunc(posts, func(p *site.Post) bool {
		return p == nil
	}), nil
}

// loadPost returns nil if the post should be skipped.
func (g *Generator) loadPost(ref site.PostRef) (*site.Post, error) {
	src, err := os.ReadFile(filepath.Join(g.PostsDir, filepath.FromSlash(ref.Source)))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	doc, err := g.Converter.Convert(src, postLink)
	if err != nil {
		return nil, errtrace.Errorf("%v: %w", ref.Source, err)
	}
	if doc.Meta.Draft && !g.Drafts {
		g.Log.Printf("Skipping draft %v", ref.Dir)
		return nil, nil
	}

	markdown.LinkHeadings(doc.Body)
	g.Transformer.Apply(doc.Body)

	return &site.Post{
		PostRef: ref,
		Meta:    doc.Meta,
		Body:    doc.Body,
	}, nil
}

func (g *Generator) writePost(post *site.Post) error {
	g.Log.Printf("Rendering post %v", post.Dir)

	dir := filepath.Join(g.OutDir, filepath.FromSlash(post.Path()))
	if err := g.copyAssets(post, dir); err != nil {
		return errtrace.Wrap(err)
	}

	return errtrace.Wrap(g.writePage(dir, func(w io.Writer) error {
		return g.Renderer.RenderPost(w, post)
	}))
}

// copyAssets copies files that sit next to a post's source,
// such as images, into the post's output directory.
// Hidden files are skipped.
func (g *Generator) copyAssets(post *site.Post, outDir string) error {
	srcDir := filepath.Join(g.PostsDir, filepath.FromSlash(post.Dir))
	source := path.Base(post.Source)
	fsys := os.DirFS(srcDir)
	return errtrace.Wrap(fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return os.MkdirAll(outDir, 0o1755)
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		dst := filepath.Join(outDir, filepath.FromSlash(p))
		switch {
		case d.IsDir():
			return os.MkdirAll(dst, 0o1755)
		case p == source || !d.Type().IsRegular():
			return nil
		}

		g.Log.Printf("Copying %v", path.Join(post.Dir, p))
		return copyFile(fsys, p, dst)
	}))
}

func copyFile(fsys fs.FS, src, dst string) (err error) {
	r, err := fsys.Open(src)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, r)

	w, err := os.Create(dst)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, w)

	_, err = io.Copy(w, r)
	return errtrace.Wrap(err)
}

func (g *Generator) writeIndexes(posts []*site.Post) error {
	tags := site.CountTags(posts)

	g.Log.Printf("Rendering index")
	err := g.writePage(g.OutDir, func(w io.Writer) error {
		return g.Renderer.RenderIndex(w, &site.Index{
			Posts: posts,
			Tags:  tags,
		})
	})
	if err != nil {
		return errtrace.Wrap(err)
	}

	for _, tc := range tags {
		g.Log.Printf("Rendering tag %v", tc.Tag)
		dir := filepath.Join(g.OutDir, filepath.FromSlash(site.TagPath(tc.Tag)))
		err := g.writePage(dir, func(w io.Writer) error {
			return g.Renderer.RenderTag(w, &site.TagIndex{
				Tag:   tc.Tag,
				Posts: site.TaggedWith(posts, tc.Tag),
			})
		})
		if err != nil {
			return errtrace.Wrap(err)
		}
	}

	return nil
}

// writePage writes dir/index.html with the given function.
func (g *Generator) writePage(dir string, render func(io.Writer) error) (err error) {
	if err := os.MkdirAll(dir, 0o1755); err != nil {
		return errtrace.Wrap(err)
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return errtrace.Wrap(render(f))
}
