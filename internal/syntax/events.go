package syntax

import "github.com/hassan/tyc/internal/lexer"

// tombstoneKind marks a Start event that has been folded into another
// node via Marker.PrecedeBy and must be skipped when replaying events.
const tombstoneKind NodeKind = 0xFFFF

// eventKind tags one entry in the parser's flat event stream (spec
// §4.2: "the parser emits an event stream {StartNode, FinishNode,
// Tokens, Error}").
type eventKind int

const (
	evStart eventKind = iota
	evFinish
	evToken
	evError
)

// event is one entry in the stream. forwardParent, when non-zero, is
// the relative index of a later Start event that should actually become
// this node's parent — the mechanism Marker.PrecedeBy uses to wrap an
// already-completed node in a fresh outer one without rewriting any
// already-emitted tokens (spec §4.2).
type event struct {
	kind          eventKind
	nodeKind      NodeKind
	tokenType     lexer.TokenType
	tokenText     string
	msg           string
	forwardParent int
}

// Marker records the index of a pending StartNode event.
type Marker struct {
	pos int
}

// CompletedMarker is a Marker whose node has been finished with a kind.
type CompletedMarker struct {
	pos  int
	kind NodeKind
}

// Start opens a new marker at the current event position. Pending
// trivia is emitted first (unless nothing is open yet), so it lands in
// the enclosing node and the new node starts at a significant token.
func (p *Parser) Start() Marker {
	if len(p.events) > 0 {
		for p.pos < len(p.toks) && p.toks[p.pos].Type.IsTrivia() {
			p.bumpRaw()
		}
	}
	pos := len(p.events)
	p.events = append(p.events, event{kind: evStart, nodeKind: tombstoneKind})
	return Marker{pos: pos}
}

// Complete finishes m as a node of kind, emitting a matching Finish
// event and returning a CompletedMarker that callers can later wrap via
// PrecedeBy.
func (m Marker) Complete(p *Parser, kind NodeKind) CompletedMarker {
	p.events[m.pos].nodeKind = kind
	p.events = append(p.events, event{kind: evFinish})
	return CompletedMarker{pos: m.pos, kind: kind}
}

// Abandon discards m without emitting a node; any events recorded since
// m was opened become children of m's parent instead.
func (m Marker) Abandon(p *Parser) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	} else {
		p.events[m.pos].nodeKind = tombstoneKind
	}
}

// PrecedeBy opens a new marker that will become the parent of the node
// cm completed, retroactively — the left-recursion trick spec §4.2
// calls out: `2 + 3 * 4` parses `2`, then on seeing `+` wants to wrap it
// in a BinExpr without having buffered `2`'s tokens for replay.
func (cm CompletedMarker) PrecedeBy(p *Parser) Marker {
	m := p.Start()
	p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// Kind returns the kind cm was completed with.
func (cm CompletedMarker) Kind() NodeKind { return cm.kind }
