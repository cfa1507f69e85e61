package syntax

import "github.com/hassan/tyc/internal/lexer"

// frame accumulates the children of one node currently open on the
// builder's stack.
type frame struct {
	kind     NodeKind
	children []GreenChild
}

// treeBuilder replays a flat event stream into a green tree. It is the
// second pass spec §4.2 describes: the parser itself never allocates a
// GreenNode directly.
type treeBuilder struct {
	stack []frame
	root  *GreenNode
}

func (tb *treeBuilder) startNode(kind NodeKind) {
	tb.stack = append(tb.stack, frame{kind: kind})
}

func (tb *treeBuilder) finishNode() {
	top := tb.stack[len(tb.stack)-1]
	tb.stack = tb.stack[:len(tb.stack)-1]
	node := NewGreenNode(top.kind, top.children)
	if len(tb.stack) == 0 {
		tb.root = node
		return
	}
	parent := &tb.stack[len(tb.stack)-1]
	parent.children = append(parent.children, GreenChild{Node: node})
}

func (tb *treeBuilder) token(tt lexer.TokenType, text string) {
	parent := &tb.stack[len(tb.stack)-1]
	parent.children = append(parent.children, GreenChild{Token: InternToken(tt, text)})
}

// buildTree replays events into a green tree, resolving the
// forward-parent chains Marker.PrecedeBy records so that a node
// completed before its wrapping parent existed still ends up nested
// correctly (spec §4.2's left-recursion mechanism).
//
// events is mutated in place: chain links consumed here are tombstoned
// so the main scan skips re-opening them when it reaches their own
// position later in the stream.
func buildTree(events []event) (*GreenNode, []string) {
	tb := &treeBuilder{}
	var errors []string
	var chainKinds []NodeKind

	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.kind {
		case evStart:
			if ev.nodeKind == tombstoneKind {
				continue
			}
			chainKinds = chainKinds[:0]
			chainKinds = append(chainKinds, ev.nodeKind)
			idx := i
			fp := ev.forwardParent
			for fp != 0 {
				idx += fp
				next := events[idx]
				chainKinds = append(chainKinds, next.nodeKind)
				fp = next.forwardParent
				events[idx].nodeKind = tombstoneKind
			}
			for j := len(chainKinds) - 1; j >= 0; j-- {
				tb.startNode(chainKinds[j])
			}

		case evFinish:
			tb.finishNode()

		case evToken:
			tb.token(ev.tokenType, ev.tokenText)

		case evError:
			errors = append(errors, ev.msg)
		}
	}

	return tb.root, errors
}
