package highlight

import (
	"sort"

	"braces.dev/errtrace"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, fades comments ever so slightly,
// and makes keywords bold.
var PlainStyle = chroma.MustNewStyle("plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.Keyword:    "bold",
	chroma.String:     "#2a6041",
	chroma.PreWrapper: "bg:#f5f5f5",
	chroma.Background: "bg:#f5f5f5",
})

func init() {
	styles.Register(PlainStyle)
}

// LookupStyle returns the registered Chroma style with the given name.
func LookupStyle(name string) (*chroma.Style, error) {
	if style, ok := styles.Registry[name]; ok {
		return style, nil
	}
	return nil, errtrace.Errorf("unknown style %q: valid values are %q", name, StyleNames())
}

// StyleNames lists the names of all registered styles in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
