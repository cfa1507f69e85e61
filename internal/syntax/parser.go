package syntax

import "github.com/hassan/tyc/internal/lexer"

// Parser is an event-emitting recursive-descent parser generalizing the
// teacher's internal/parser.Parser (which built *ast.Node pointers
// directly) into the two-pass scheme spec §4.2 requires: the parser
// only ever appends {Start, Finish, Token, Error} events; a second pass
// (buildTree) replays them into the green tree.
type Parser struct {
	toks   []lexer.Token
	pos    int
	events []event

	followStack     []map[lexer.TokenType]bool
	errSeenAtPos     map[int]bool
	noStructLiteral  bool
}

// NewParser lexes src in full (including trivia) and returns a Parser
// ready to run one of the entry points.
func NewParser(src string) *Parser {
	lx := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, _ := lx.Next()
		toks = append(toks, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	return &Parser{toks: toks, errSeenAtPos: map[int]bool{}}
}

// Tree is the result of a successful parse: the green root plus the
// parallel error list spec §6.4 and §4.2 call for.
type Tree struct {
	Root   *GreenNode
	Errors []string
}

// ParseModule parses a complete module (spec §6.2: module ::= (item)*).
func ParseModule(src string) *Tree {
	p := NewParser(src)
	m := p.Start()
	p.pushFollow(map[lexer.TokenType]bool{lexer.TokenEOF: true})
	for p.currentKind() != lexer.TokenEOF {
		p.parseItem()
	}
	p.popFollow()
	p.bumpTrailingTrivia()
	m.Complete(p, NodeModule)
	root, errs := buildTree(p.events)
	return &Tree{Root: root, Errors: errs}
}

// ParseExpression parses a single expression, for tools/tests that only
// need the expression entry point (spec §4.2).
func ParseExpression(src string) *Tree {
	p := NewParser(src)
	p.pushFollow(map[lexer.TokenType]bool{lexer.TokenEOF: true})
	p.parseExpr(0)
	p.popFollow()
	p.bumpTrailingTrivia()
	root, errs := buildTree(p.events)
	return &Tree{Root: root, Errors: errs}
}

// ParseBlock parses a single block `{ ... }` (spec §4.2).
func ParseBlock(src string) *Tree {
	p := NewParser(src)
	p.pushFollow(map[lexer.TokenType]bool{lexer.TokenEOF: true})
	p.parseBlockExpr()
	p.popFollow()
	p.bumpTrailingTrivia()
	root, errs := buildTree(p.events)
	return &Tree{Root: root, Errors: errs}
}

func (p *Parser) bumpTrailingTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].Type.IsTrivia() {
		p.bumpRaw()
	}
}

// ---- low-level token stream ----

func (p *Parser) nthSignificant(n int) lexer.Token {
	idx := p.pos
	count := 0
	for idx < len(p.toks) {
		if !p.toks[idx].Type.IsTrivia() {
			if count == n {
				return p.toks[idx]
			}
			count++
		}
		idx++
	}
	return lexer.Token{Type: lexer.TokenEOF}
}

func (p *Parser) current() lexer.Token     { return p.nthSignificant(0) }
func (p *Parser) currentKind() lexer.TokenType { return p.current().Type }

func (p *Parser) bumpRaw() {
	tok := p.toks[p.pos]
	p.events = append(p.events, event{kind: evToken, tokenType: tok.Type, tokenText: tok.Text})
	p.pos++
}

// bump consumes leading trivia then the current significant token,
// returning it.
func (p *Parser) bump() lexer.Token {
	for p.pos < len(p.toks) && p.toks[p.pos].Type.IsTrivia() {
		p.bumpRaw()
	}
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	tok := p.toks[p.pos]
	p.bumpRaw()
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.currentKind() == tt }

func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.bump()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.accept(tt) {
		return true
	}
	p.skipToRecoveryPoint("expected " + tt.String() + ", found " + p.currentKind().String())
	return false
}

// matchComposite reports whether the simple tokens starting at the next
// significant token spell out the composite kind tt, with no trivia
// interleaved between them (spec §4.1).
func (p *Parser) matchComposite(tt lexer.TokenType) bool {
	seq, ok := lexer.CompositeSpellings[tt]
	if !ok {
		return false
	}
	idx := p.pos
	for idx < len(p.toks) && p.toks[idx].Type.IsTrivia() {
		idx++
	}
	for _, want := range seq {
		if idx >= len(p.toks) || p.toks[idx].Type != want {
			return false
		}
		idx++
	}
	return true
}

// bumpComposite consumes leading trivia then the raw tokens spelling
// tt, emitting a single merged Token event of kind tt so the tree holds
// one logical operator token (spec §4.1 discusses the spelling table;
// merging keeps AST operator matching a single switch on token kind).
func (p *Parser) bumpComposite(tt lexer.TokenType) {
	for p.pos < len(p.toks) && p.toks[p.pos].Type.IsTrivia() {
		p.bumpRaw()
	}
	seq := lexer.CompositeSpellings[tt]
	text := ""
	for range seq {
		text += p.toks[p.pos].Text
		p.pos++
	}
	p.events = append(p.events, event{kind: evToken, tokenType: tt, tokenText: text})
}

// anyComposite returns the composite kind spelled at the current
// position, or (0, false).
func (p *Parser) anyComposite() (lexer.TokenType, bool) {
	for _, tt := range []lexer.TokenType{
		lexer.TokenEqEq, lexer.TokenNotEq, lexer.TokenLtEq, lexer.TokenGtEq,
		lexer.TokenAndAnd, lexer.TokenOrOr, lexer.TokenArrow, lexer.TokenColonColon,
		lexer.TokenEllipsis,
	} {
		if p.matchComposite(tt) {
			return tt, true
		}
	}
	return 0, false
}

// ---- error recovery ----

func (p *Parser) pushFollow(set map[lexer.TokenType]bool) {
	p.followStack = append(p.followStack, set)
}

func (p *Parser) popFollow() {
	p.followStack = p.followStack[:len(p.followStack)-1]
}

func (p *Parser) inAnyFollow(tt lexer.TokenType) bool {
	for _, s := range p.followStack {
		if s[tt] {
			return true
		}
	}
	return false
}

// skipToRecoveryPoint records msg (deduped by position) then consumes
// tokens as a single ERROR node until EOF or a token present in any
// follow set currently on the stack (spec §4.2).
func (p *Parser) skipToRecoveryPoint(msg string) {
	if !p.errSeenAtPos[p.pos] {
		p.events = append(p.events, event{kind: evError, msg: msg})
		p.errSeenAtPos[p.pos] = true
	}
	m := p.Start()
	consumed := false
	for {
		k := p.currentKind()
		if k == lexer.TokenEOF || p.inAnyFollow(k) {
			break
		}
		p.bump()
		consumed = true
	}
	if consumed {
		m.Complete(p, NodeError)
	} else {
		m.Abandon(p)
	}
}
