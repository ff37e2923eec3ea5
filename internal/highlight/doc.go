// Package highlight syntax-highlights source code into HTML fragments.
// It uses the Chroma library to do this work.
//
// The output of [Highlighter.Highlight] is a sequence of
// escaped text and <span> elements carrying Chroma's CSS classes.
// It has no surrounding <pre> or per-line structure:
// a token that spans multiple lines (e.g. a block comment)
// renders as a single <span> containing newlines.
package highlight
