package site

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes unsafe markup from rendered posts.
// It keeps the structure added to code blocks.
//
// The zero value is ready to use.
type Sanitizer struct {
	once   sync.Once
	policy *bluemonday.Policy
}

func (s *Sanitizer) init() {
	s.once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		p.AllowAttrs("class").OnElements("div", "pre", "code", "span")
		p.AllowAttrs("data-lines").Matching(bluemonday.Integer).OnElements("span", "div")
		s.policy = p
	})
}

// Sanitize returns a sanitized copy of the given HTML.
func (s *Sanitizer) Sanitize(html string) string {
	s.init()
	return s.policy.Sanitize(html)
}
