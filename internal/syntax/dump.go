package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// Dump writes an indented textual rendering of the subtree rooted at
// red to w: one line per node or token, "KIND @ start..end:" for nodes
// and "KIND @ start..end: 'text'" for tokens, with exact byte offsets
// and the token text escaped as in a Go string literal. It backs
// `tyc -a cst` and is handy for debugging.
func Dump(w io.Writer, red *RedNode) {
	dumpNode(w, red, 0)
}

func dumpNode(w io.Writer, red *RedNode, depth int) {
	writeIndent(w, depth)
	fmt.Fprintf(w, "%s @ %d..%d:\n", red.Kind().String(), red.Offset(), red.End())
	offset := red.Offset()
	for _, c := range red.Children() {
		if c.IsToken() {
			writeIndent(w, depth+1)
			q := strconv.Quote(c.Token.Text)
			fmt.Fprintf(w, "%s @ %d..%d: '%s'\n", c.Token.Type.String(), offset, offset+c.Token.Len(), q[1:len(q)-1])
			offset += c.Token.Len()
		} else {
			dumpNode(w, c.Node, depth+1)
			offset = c.Node.End()
		}
	}
}

func writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, "  ")
	}
}
