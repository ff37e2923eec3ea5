// Package site discovers blog posts and renders them into HTML pages.
package site

import (
	"cmp"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"time"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"go.abhg.dev/codefence/internal/hast"
	"go.abhg.dev/codefence/internal/markdown"
)

// MarkdownNames are the names of post source files
// inside a post directory, in order of preference.
var MarkdownNames = []string{"index.md", "index.mdx"}

var _postDirRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:-(.+))?$`)

// PostRef refers to a post in the posts directory.
//
// Each post is a directory holding an index.md file
// and any files it refers to.
// Directory names should take the form,
//
//	YYYY-MM-DD-slug
type PostRef struct {
	// Dir is the name of the post's directory.
	// It is also the path of the post in the generated site.
	Dir string

	// Source is the path to the Markdown file for the post.
	Source string

	// Date of the post, if the directory name specified one.
	Date time.Time

	// Slug is the part of the directory name after the date.
	// If the directory name doesn't have a date, this is the full name.
	Slug string
}

// ParsePostDir parses the name of a post directory.
func ParsePostDir(name string) PostRef {
	ref := PostRef{Dir: name, Slug: name}
	m := _postDirRe.FindStringSubmatch(name)
	if m == nil {
		return ref
	}

	if date, err := time.Parse(time.DateOnly, m[1]); err == nil {
		ref.Date = date
	}
	ref.Slug = m[2]
	return ref
}

// FindPosts finds posts at the top level of the given file system.
// Hidden directories, and those starting with "_", are ignored,
// as are directories matching any of the exclude patterns.
// Patterns use doublestar syntax and are matched against
// the directory name.
// Posts are returned in directory name order.
func FindPosts(fsys fs.FS, exclude ...string) ([]PostRef, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var refs []PostRef
	for _, ent := range entries {
		name := ent.Name()
		if !ent.IsDir() || name[0] == '.' || name[0] == '_' {
			continue
		}
		if excluded, err := matchAny(exclude, name); err != nil {
			return nil, errtrace.Wrap(err)
		} else if excluded {
			continue
		}

		for _, base := range MarkdownNames {
			src := path.Join(name, base)
			if info, err := fs.Stat(fsys, src); err != nil || info.IsDir() {
				continue
			}

			ref := ParsePostDir(name)
			ref.Source = src
			refs = append(refs, ref)
			break
		}
	}
	return refs, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, pat := range patterns {
		ok, err := doublestar.Match(pat, name)
		if err != nil {
			return false, errtrace.Errorf("exclude %q: %w", pat, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Post is a post that has been loaded from its source.
type Post struct {
	PostRef

	// Meta holds information from the post's front matter.
	Meta markdown.Meta

	// Body of the post.
	Body []hast.Node
}

// Title of the post.
// Defaults to the slug if the front matter doesn't specify one.
func (p *Post) Title() string {
	return cmp.Or(p.Meta.Title, p.Slug, p.Dir)
}

// Path is the path to the post's page in the generated site.
func (p *Post) Path() string {
	return p.Dir
}

// SortPosts sorts posts newest first.
// Posts on the same date keep their relative order.
func SortPosts(posts []*Post) {
	slices.SortStableFunc(posts, func(a, b *Post) int {
		return b.Date.Compare(a.Date)
	})
}

// TaggedWith returns the posts that have the given tag.
func TaggedWith(posts []*Post, tag string) []*Post {
	var tagged []*Post
	for _, p := range posts {
		if slices.Contains(p.Meta.Tags, tag) {
			tagged = append(tagged, p)
		}
	}
	return tagged
}

// TagCount is the number of posts with a tag.
type TagCount struct {
	Tag   string
	Count int
}

// CountTags counts the posts for each tag.
// The result is ordered by count, highest first,
// and then by tag name.
func CountTags(posts []*Post) []TagCount {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Meta.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	slices.SortFunc(tags, func(a, b TagCount) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.Tag, b.Tag),
		)
	})
	return tags
}
