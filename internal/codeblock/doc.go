// Package codeblock restructures <pre><code> blocks in an HTML tree.
//
// Two passes are provided:
//
//   - [Highlight] syntax-highlights a block
//     and wraps each source line in its own element.
//   - [Directives] interprets directive lines like
//     ":::[class=added]" and ":::" inside a block,
//     wrapping the lines between them in nested scope elements.
//
// Both passes are applied to a single <pre> element at a time
// and replace the children of its <code> element wholesale.
// Use [Pipeline] to run them over a whole document.
package codeblock
