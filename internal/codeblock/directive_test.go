package codeblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc   string
		marker string // defaults to DefaultMarker
		give   string
		want   Directive
		wantOK bool
	}{
		{desc: "empty"},
		{desc: "plain text", give: "foo := bar"},
		{
			desc:   "close",
			give:   ":::",
			want:   Directive{Close: true},
			wantOK: true,
		},
		{
			desc:   "close/whitespace",
			give:   "  :::\t",
			want:   Directive{Close: true},
			wantOK: true,
		},
		{
			desc:   "close/after text",
			give:   "// :::",
			want:   Directive{Close: true},
			wantOK: true,
		},
		{desc: "marker mid-line", give: "a ::: b"},
		{desc: "marker at start", give: "::: foo"},
		{
			desc:   "open/double quotes",
			give:   `:::[class="added"]`,
			want:   Directive{Classes: []string{"added"}},
			wantOK: true,
		},
		{
			desc:   "open/single quotes",
			give:   `:::[class='removed']`,
			want:   Directive{Classes: []string{"removed"}},
			wantOK: true,
		},
		{
			desc:   "open/bare",
			give:   `:::[class=hl]`,
			want:   Directive{Classes: []string{"hl"}},
			wantOK: true,
		},
		{
			desc:   "open/spaces and case",
			give:   ` ::: [ Class = "hl-blur" ] `,
			want:   Directive{Classes: []string{"hl-blur"}},
			wantOK: true,
		},
		{
			desc:   "open/multiple",
			give:   `:::[class="a"][class='b']`,
			want:   Directive{Classes: []string{"a", "b"}},
			wantOK: true,
		},
		{
			desc:   "open/mismatched quotes",
			give:   `:::[class="a']`,
			want:   Directive{Classes: []string{`"a'`}},
			wantOK: true,
		},
		{
			desc:   "open/lone quote",
			give:   `:::[class="]`,
			want:   Directive{Classes: []string{""}},
			wantOK: true,
		},
		{
			desc:   "open/equals in value",
			give:   `:::[class="a=b"]`,
			want:   Directive{Classes: []string{"a=b"}},
			wantOK: true,
		},
		{
			desc:   "open/other attributes ignored",
			give:   `:::[id=foo][class=bar]`,
			want:   Directive{Classes: []string{"bar"}},
			wantOK: true,
		},
		{desc: "unknown attribute only", give: `:::[id=foo]`},
		{desc: "no value", give: `:::[class]`},
		{desc: "unterminated group", give: `:::[class=foo`},
		{desc: "group without marker", give: `[class=foo]`},
		{
			desc:   "custom marker",
			marker: "@@",
			give:   `@@[class=x]`,
			want:   Directive{Classes: []string{"x"}},
			wantOK: true,
		},
		{desc: "custom marker/default ignored", marker: "@@", give: ":::"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			marker := tt.marker
			if marker == "" {
				marker = DefaultMarker
			}

			got, ok := ParseDirective(marker, tt.give)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDirective_emptyMarker(t *testing.T) {
	t.Parallel()

	_, ok := ParseDirective("", ":::")
	assert.False(t, ok)
}
