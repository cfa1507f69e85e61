package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hassan/tyc/internal/lexer"
)

// GreenToken is a shared, immutable leaf: a lexer kind plus its exact
// source text. Tokens with identical (Type, Text) are interned to the
// same *GreenToken, per spec §3.1.
type GreenToken struct {
	Type lexer.TokenType
	Text string
}

// Len returns the token's length in bytes.
func (t *GreenToken) Len() uint32 { return uint32(len(t.Text)) }

var (
	tokenInternMu sync.Mutex
	tokenIntern   = map[string]*GreenToken{}
)

func internKey(tt lexer.TokenType, text string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(tt)))
	b.WriteByte(0)
	b.WriteString(text)
	return b.String()
}

// InternToken returns the shared *GreenToken for (tt, text), creating
// it on first use. Single-threaded per translation unit (spec §5), so
// the mutex here only guards reuse across concurrently-compiled units
// sharing the process-wide intern table (e.g. internal/langsrv).
func InternToken(tt lexer.TokenType, text string) *GreenToken {
	key := internKey(tt, text)
	tokenInternMu.Lock()
	defer tokenInternMu.Unlock()
	if gt, ok := tokenIntern[key]; ok {
		return gt
	}
	gt := &GreenToken{Type: tt, Text: text}
	tokenIntern[key] = gt
	return gt
}

// GreenChild is either a GreenNode or a GreenToken. Exactly one of the
// two fields is non-nil.
type GreenChild struct {
	Node  *GreenNode
	Token *GreenToken
}

// Len returns the byte length of whichever alternative is set.
func (c GreenChild) Len() uint32 {
	if c.Node != nil {
		return c.Node.Len
	}
	return c.Token.Len()
}

// IsToken reports whether this child is a leaf token.
func (c GreenChild) IsToken() bool { return c.Token != nil }

// GreenNode is a shared, immutable interior node: a kind, a total byte
// length equal to the sum of its children's lengths (spec §3.1
// invariant), and an ordered list of children.
type GreenNode struct {
	Kind     NodeKind
	Len      uint32
	Children []GreenChild
}

// NewGreenNode builds a GreenNode from children, computing Len as the
// sum of child lengths (the invariant spec §3.1 requires), and interns
// it alongside every other structurally-identical node built so far so
// that two equal source fragments share one green subtree (spec §3.1).
func NewGreenNode(kind NodeKind, children []GreenChild) *GreenNode {
	var total uint32
	for _, c := range children {
		total += c.Len()
	}
	n := &GreenNode{Kind: kind, Len: total, Children: children}
	return internNode(n)
}

var (
	nodeInternMu sync.Mutex
	nodeIntern   = map[string]*GreenNode{}
)

func internNode(n *GreenNode) *GreenNode {
	key := nodeFingerprint(n)
	nodeInternMu.Lock()
	defer nodeInternMu.Unlock()
	if existing, ok := nodeIntern[key]; ok {
		return existing
	}
	nodeIntern[key] = n
	return n
}

// nodeFingerprint produces a structural key for n: two nodes with equal
// fingerprints are interchangeable by spec §3.1's "hash-equal by
// structural content" rule. Children are already interned by the time
// a parent is built, so comparing child pointer identity (rather than
// recursing) is sufficient and keeps this O(children), not O(subtree).
func nodeFingerprint(n *GreenNode) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(n.Kind)))
	for _, c := range n.Children {
		b.WriteByte(0)
		if c.IsToken() {
			b.WriteByte('t')
			fmt.Fprintf(&b, "%p", c.Token)
		} else {
			b.WriteByte('n')
			fmt.Fprintf(&b, "%p", c.Node)
		}
	}
	return b.String()
}

// Equal reports whether n and other are the same interned green node,
// or — for nodes built outside NewGreenNode — structurally identical.
func (n *GreenNode) Equal(other *GreenNode) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	if n.Kind != other.Kind || n.Len != other.Len || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		a, b := n.Children[i], other.Children[i]
		if a.IsToken() != b.IsToken() {
			return false
		}
		if a.IsToken() {
			if a.Token.Type != b.Token.Type || a.Token.Text != b.Token.Text {
				return false
			}
		} else if !a.Node.Equal(b.Node) {
			return false
		}
	}
	return true
}

// Text reconstructs the exact source text spanned by n by concatenating
// every token in pre-order — the lossless round-trip property spec §8
// requires (text_of(parse(s).root) == s).
func (n *GreenNode) Text() string {
	var b strings.Builder
	writeGreenText(&b, n)
	return b.String()
}

func writeGreenText(b *strings.Builder, n *GreenNode) {
	for _, c := range n.Children {
		if c.IsToken() {
			b.WriteString(c.Token.Text)
		} else {
			writeGreenText(b, c.Node)
		}
	}
}
