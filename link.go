package main

import (
	"net/url"
	"path"
	"slices"

	"go.abhg.dev/codefence/internal/markdown"
	"go.abhg.dev/codefence/internal/site"
)

// postLink rewrites links from one post to another.
//
// Posts link to each other by source file,
// so that links work when reading the Markdown directly.
//
//	[previous post](../2025-01-01-hello/index.md#setup)
//
// On the generated site, these become links to the post's directory.
//
//	../2025-01-01-hello/#setup
//
// Links to anything else are left alone.
func postLink(dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}

	dir, base := path.Split(u.Path)
	if !slices.Contains(site.MarkdownNames, base) {
		return "", false
	}
	if dir == "" {
		dir = "./"
	}

	u.Path = dir
	u.RawPath = ""
	return u.String(), true
}

var _ markdown.LinkFunc = postLink
