// Package relative builds relative links between pages
// and relative file paths, with string manipulation exclusively.
package relative

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.abhg.dev/codefence/internal/sliceutil"
)

const (
	_slash       = "/"
	_filepathSep = string(filepath.Separator)
)

// Path returns a path to dst, relative to src.
// Both paths must be relative or both paths must be absolute,
// and they must both be /-separated.
// An empty path or "." refers to the root.
//
//	Path("2025-01-01-hello", "tags/go") == "../tags/go"
//
// This operation relies on string manipulation exclusively,
// so it doesn't fail.
func Path(src, dst string) string {
	return rel(_slash, src, dst)
}

// Filepath returns a path to dst, relative to src.
// Both paths must be relative or both paths must be absolute,
// and they must both be valid file paths for the current system.
//
// This operation relies on string manipulation exclusively,
// so it doesn't fail.
func Filepath(src, dst string) string {
	return rel(_filepathSep, src, dst)
}

func rel(delim, src, dst string) string {
	if isAbs(delim, src) != isAbs(delim, dst) {
		panic(fmt.Sprintf("Rel(%q, %q): both must be absolute, or both must be relative", src, dst))
	}
	// src must always be a directory.
	// Drop the trailing separator, if any.
	src = strings.TrimSuffix(src, delim)

	srcParts := split(delim, src)
	dstParts := split(delim, dst)
	srcParts, dstParts = sliceutil.RemoveCommonPrefix(srcParts, dstParts)

	parts := make([]string, 0, len(srcParts)+len(dstParts))
	for range srcParts {
		parts = append(parts, "..")
	}
	parts = append(parts, dstParts...)
	return strings.Join(parts, delim)
}

func isAbs(delim, p string) bool {
	if delim == _slash {
		return path.IsAbs(p)
	}
	return filepath.IsAbs(p)
}

func split(delim, p string) []string {
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, delim)
}
