package syntax

import "github.com/hassan/tyc/internal/lexer"

// itemStarters is pushed while parsing any top-level or block item so
// recovery can resynchronize at the next item-starting keyword.
var itemStarters = map[lexer.TokenType]bool{
	lexer.TokenMod:    true,
	lexer.TokenImport:  true,
	lexer.TokenType_:   true,
	lexer.TokenFn:      true,
	lexer.TokenLet:     true,
	lexer.TokenRBrace:  true,
	lexer.TokenEOF:     true,
}

// parseItem parses one top-level item: mod | import | typeItem | fnItem
// | letItem | exprItem (spec §6.2).
func (p *Parser) parseItem() {
	p.pushFollow(itemStarters)
	defer p.popFollow()

	switch p.currentKind() {
	case lexer.TokenMod:
		p.parseModItem()
	case lexer.TokenImport:
		p.parseImportItem()
	case lexer.TokenType_:
		p.parseTypeItem()
	case lexer.TokenFn:
		p.parseFnItem()
	case lexer.TokenLet:
		p.parseLetItem()
	default:
		p.parseExprItem()
	}
}

// parseModItem: "mod" IDENT "{" (item)* "}"
func (p *Parser) parseModItem() {
	m := p.Start()
	p.expect(lexer.TokenMod)
	p.parseName()
	p.expect(lexer.TokenLBrace)
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		p.parseItem()
	}
	p.expect(lexer.TokenRBrace)
	m.Complete(p, NodeModule)
}

// parseImportItem: "import" IDENT ";"
func (p *Parser) parseImportItem() {
	m := p.Start()
	p.expect(lexer.TokenImport)
	p.parseName()
	p.expect(lexer.TokenSemi)
	m.Complete(p, NodeImportItem)
}

// parseTypeItem: "type" IDENT "{" (member ("," member)* ","?)? "}"
func (p *Parser) parseTypeItem() {
	m := p.Start()
	p.expect(lexer.TokenType_)
	p.parseName()
	p.expect(lexer.TokenLBrace)
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		p.parseMember()
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace)
	m.Complete(p, NodeTypeItem)
}

// parseMember: IDENT ":" type
func (p *Parser) parseMember() {
	m := p.Start()
	p.parseName()
	p.expect(lexer.TokenColon)
	p.parseTypeRef()
	m.Complete(p, NodeMember)
}

// parseFnItem: "fn" name "(" params? ")" ("->" type)? ( "extern"? ";" | block )
//
// A bodyless function is written as a bare trailing `;` (spec §8.2
// scenario 2: "fn foo();"), matching original_source/crates/cst/src/
// parser/grammar/items.rs's fn_item: `if maybe('{') { block } else {
// expect(';') }`. `extern` is accepted immediately before the `;` too,
// since it reads naturally as "this fn has no body, and is extern",
// but it was never required by the grammar.
func (p *Parser) parseFnItem() {
	m := p.Start()
	p.expect(lexer.TokenFn)
	p.parseName()
	p.parseParamList()
	if p.matchComposite(lexer.TokenArrow) {
		p.bumpComposite(lexer.TokenArrow)
		p.parseTypeRef()
	}
	p.accept(lexer.TokenExtern)
	if p.at(lexer.TokenSemi) {
		p.expect(lexer.TokenSemi)
	} else {
		p.parseBlockExpr()
	}
	m.Complete(p, NodeFnItem)
}

func (p *Parser) parseParamList() {
	m := p.Start()
	p.expect(lexer.TokenLParen)
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		p.parseParam()
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen)
	m.Complete(p, NodeParamList)
}

// parseParam: IDENT ":" type, or "..." for a variadic marker param.
func (p *Parser) parseParam() {
	m := p.Start()
	if p.matchComposite(lexer.TokenEllipsis) {
		p.bumpComposite(lexer.TokenEllipsis)
	} else {
		p.parseName()
		p.expect(lexer.TokenColon)
		p.parseTypeRef()
	}
	m.Complete(p, NodeParam)
}

// parseLetItem: "let" name (":" type)? ("=" expr)? ";"
func (p *Parser) parseLetItem() {
	m := p.Start()
	p.expect(lexer.TokenLet)
	p.parseName()
	if p.accept(lexer.TokenColon) {
		p.parseTypeRef()
	}
	if p.accept(lexer.TokenAssign) {
		p.parseExpr(0)
	}
	p.expect(lexer.TokenSemi)
	m.Complete(p, NodeLetItem)
}

// parseExprItem: expr (";")? — certain expression forms (if, loop,
// while, block) need no trailing ';' to be items, exactly as spec §4.2
// describes.
func (p *Parser) parseExprItem() {
	m := p.Start()
	p.parseExpr(0)
	p.accept(lexer.TokenSemi)
	m.Complete(p, NodeExprItem)
}

// parseName: a single IDENT wrapped in a Name node.
func (p *Parser) parseName() {
	m := p.Start()
	p.expect(lexer.TokenIdent)
	m.Complete(p, NodeName)
}

// parseTypeRef: "*" type | name (spec §6.2).
func (p *Parser) parseTypeRef() {
	if p.at(lexer.TokenStar) {
		m := p.Start()
		p.bump()
		p.parseTypeRef()
		m.Complete(p, NodePointerTypeRef)
		return
	}
	m := p.Start()
	p.parseName()
	m.Complete(p, NodeTypeRef)
}
