// Package pathx provides extensions to the [path] and [path/filepath] packages.
package pathx

import (
	"path/filepath"
	"strings"
)

// Descends reports whether b is equal to, or a descendant of a.
// Both paths must be /-separated.
func Descends(a, b string) bool {
	return descends("/", a, b)
}

// DescendsFile reports whether the file path b
// is equal to, or a descendant of the file path a.
// Both paths are cleaned before they are compared.
func DescendsFile(a, b string) bool {
	return descends(string(filepath.Separator), filepath.Clean(a), filepath.Clean(b))
}

func descends(sep, a, b string) bool {
	a = strings.TrimSuffix(a, sep)
	if !strings.HasPrefix(b, a) {
		return false
	}
	b = b[len(a):]
	return b == "" || strings.HasPrefix(b, sep)
}
