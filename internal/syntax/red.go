package syntax

import "github.com/hassan/tyc/internal/lexer"

// RedNode is the transient overlay over a GreenNode described in spec
// §3.1: it carries the absolute byte offset and parent/index
// backpointers that the shared green tree itself cannot hold (since a
// green node may appear at many offsets across a document once
// interning is in play). Red nodes are built lazily by Child/Parent.
type RedNode struct {
	Green         *GreenNode
	parent        *RedNode
	indexInParent int
	offset        uint32
}

// NewRoot creates the red root over a green tree at offset 0.
func NewRoot(green *GreenNode) *RedNode {
	return &RedNode{Green: green, offset: 0, indexInParent: -1}
}

// Parent returns the enclosing red node, or nil at the root.
func (r *RedNode) Parent() *RedNode { return r.parent }

// Offset returns r's absolute byte offset into the original source.
func (r *RedNode) Offset() uint32 { return r.offset }

// Len returns r's byte length.
func (r *RedNode) Len() uint32 { return r.Green.Len }

// End returns r.Offset()+r.Len(), the byte offset just past r.
func (r *RedNode) End() uint32 { return r.offset + r.Len() }

// IndexInParent returns r's position among its parent's children, or
// -1 at the root.
func (r *RedNode) IndexInParent() int { return r.indexInParent }

// Kind returns the underlying green node's kind.
func (r *RedNode) Kind() NodeKind { return r.Green.Kind }

// Text reconstructs the exact source text spanned by r.
func (r *RedNode) Text() string { return r.Green.Text() }

// NumChildren returns the number of node-typed children (token children
// are reachable via Children(), which yields both).
func (r *RedNode) NumChildren() int { return len(r.Green.Children) }

// RedChild is a lazily-constructed overlay over a single GreenChild:
// either a *RedNode (for node children) or a *GreenToken (for leaves).
type RedChild struct {
	Node  *RedNode
	Token *GreenToken
}

// IsToken reports whether this child is a leaf token.
func (c RedChild) IsToken() bool { return c.Token != nil }

// Children lazily materializes r's children as red overlays, computing
// each child's absolute offset from the running total of its
// predecessors' lengths — the invariant spec §3.1 requires:
// offset + len <= parent.offset + parent.len.
func (r *RedNode) Children() []RedChild {
	out := make([]RedChild, 0, len(r.Green.Children))
	running := r.offset
	for i, gc := range r.Green.Children {
		if gc.IsToken() {
			out = append(out, RedChild{Token: gc.Token})
		} else {
			child := &RedNode{
				Green:         gc.Node,
				parent:        r,
				indexInParent: i,
				offset:        running,
			}
			out = append(out, RedChild{Node: child})
		}
		running += gc.Len()
	}
	return out
}

// ChildNode returns the i-th node child overlay (skipping leaf
// tokens), constructing it lazily. The index counts only node
// children, matching how internal/ast walks typed children.
func (r *RedNode) ChildNode(i int) *RedNode {
	n := 0
	for _, c := range r.Children() {
		if c.IsToken() {
			continue
		}
		if n == i {
			return c.Node
		}
		n++
	}
	return nil
}

// ChildrenOfKind returns every direct node child whose kind is k.
func (r *RedNode) ChildrenOfKind(k NodeKind) []*RedNode {
	var out []*RedNode
	for _, c := range r.Children() {
		if !c.IsToken() && c.Node.Kind() == k {
			out = append(out, c.Node)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct node child of kind k, or
// nil.
func (r *RedNode) FirstChildOfKind(k NodeKind) *RedNode {
	for _, c := range r.Children() {
		if !c.IsToken() && c.Node.Kind() == k {
			return c.Node
		}
	}
	return nil
}

// Tokens returns every direct leaf-token child, in order.
func (r *RedNode) Tokens() []*GreenToken {
	var out []*GreenToken
	for _, c := range r.Children() {
		if c.IsToken() {
			out = append(out, c.Token)
		}
	}
	return out
}

// FirstTokenOfType returns the first direct token child of the given
// lexer kind, or nil.
func (r *RedNode) FirstTokenOfType(tt lexer.TokenType) *GreenToken {
	for _, tok := range r.Tokens() {
		if tok.Type == tt {
			return tok
		}
	}
	return nil
}
