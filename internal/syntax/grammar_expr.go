package syntax

import "github.com/hassan/tyc/internal/lexer"

// bindingPowerFor implements the Pratt table from spec §4.2 as data:
// each infix/postfix operator has a (left, right) binding-power pair.
// A left binding strictly less than the caller's minimum breaks the
// loop; equal bindings continue, producing left-associative parsing —
// exactly the rule spec §4.2 states in prose.
var bindingPowerFor = map[lexer.TokenType][2]int{
	lexer.TokenAssign:     {0, 1},
	lexer.TokenAndAnd:     {1, 2},
	lexer.TokenOrOr:       {1, 2},
	lexer.TokenEqEq:       {2, 3},
	lexer.TokenNotEq:      {2, 3},
	lexer.TokenLt:         {2, 3},
	lexer.TokenLtEq:       {2, 3},
	lexer.TokenGt:         {2, 3},
	lexer.TokenGtEq:       {2, 3},
	lexer.TokenPlus:       {3, 4},
	lexer.TokenMinus:      {3, 4},
	lexer.TokenStar:       {4, 5},
	lexer.TokenSlash:      {4, 5},
	lexer.TokenDot:        {5, 6},
	lexer.TokenArrow:      {5, 6},
	lexer.TokenAs:         {5, 6},
	lexer.TokenLParen:     {5, 0}, // postfix call
	lexer.TokenLBracket:   {5, 0}, // postfix index
}

const prefixBindingPower = 5

// parseExpr implements precedence-climbing (Pratt) expression parsing
// over the binding-power table above.
func (p *Parser) parseExpr(minBP int) CompletedMarker {
	lhs := p.parseUnaryOrPrimary()

	for {
		kind, composite, ok := p.peekOperator()
		if !ok {
			break
		}
		bp := bindingPowerFor[kind]
		if bp[0] < minBP {
			break
		}

		switch kind {
		case lexer.TokenLParen:
			lhs = p.parseCallTail(lhs)
			continue
		case lexer.TokenLBracket:
			lhs = p.parseIndexTail(lhs)
			continue
		}

		m := lhs.PrecedeBy(p)
		if composite {
			p.bumpComposite(kind)
		} else {
			p.bump()
		}

		switch kind {
		case lexer.TokenAs:
			p.parseTypeRef()
			lhs = m.Complete(p, NodeCastExpr)
		case lexer.TokenDot, lexer.TokenArrow:
			p.parseNameRefExpr()
			lhs = m.Complete(p, NodeBinExpr)
		case lexer.TokenAssign:
			p.parseExpr(bp[1])
			lhs = m.Complete(p, NodeAssignExpr)
		default:
			p.parseExpr(bp[1])
			lhs = m.Complete(p, NodeBinExpr)
		}
	}
	return lhs
}

// peekOperator resolves the operator, if any, starting at the current
// position, preferring composite spellings over the simple tokens that
// could otherwise be mistaken for them (e.g. "<=" over "<").
func (p *Parser) peekOperator() (kind lexer.TokenType, composite bool, ok bool) {
	switch {
	case p.at(lexer.TokenLParen):
		return lexer.TokenLParen, false, true
	case p.at(lexer.TokenLBracket):
		return lexer.TokenLBracket, false, true
	case p.at(lexer.TokenAs):
		return lexer.TokenAs, false, true
	case p.matchComposite(lexer.TokenArrow):
		return lexer.TokenArrow, true, true
	case p.matchComposite(lexer.TokenAndAnd):
		return lexer.TokenAndAnd, true, true
	case p.matchComposite(lexer.TokenOrOr):
		return lexer.TokenOrOr, true, true
	case p.matchComposite(lexer.TokenEqEq):
		return lexer.TokenEqEq, true, true
	case p.matchComposite(lexer.TokenNotEq):
		return lexer.TokenNotEq, true, true
	case p.matchComposite(lexer.TokenLtEq):
		return lexer.TokenLtEq, true, true
	case p.matchComposite(lexer.TokenGtEq):
		return lexer.TokenGtEq, true, true
	case p.at(lexer.TokenDot):
		return lexer.TokenDot, false, true
	case p.at(lexer.TokenLt):
		return lexer.TokenLt, false, true
	case p.at(lexer.TokenGt):
		return lexer.TokenGt, false, true
	case p.at(lexer.TokenPlus):
		return lexer.TokenPlus, false, true
	case p.at(lexer.TokenMinus):
		return lexer.TokenMinus, false, true
	case p.at(lexer.TokenStar):
		return lexer.TokenStar, false, true
	case p.at(lexer.TokenSlash):
		return lexer.TokenSlash, false, true
	case p.at(lexer.TokenAssign):
		return lexer.TokenAssign, false, true
	default:
		return 0, false, false
	}
}

func (p *Parser) parseUnaryOrPrimary() CompletedMarker {
	switch p.currentKind() {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar:
		m := p.Start()
		p.bump()
		p.parseExpr(prefixBindingPower)
		return m.Complete(p, NodePrefixExpr)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseNameRefExpr() CompletedMarker {
	m := p.Start()
	p.parseName()
	return m.Complete(p, NodeNameRefExpr)
}

func (p *Parser) parsePrimary() CompletedMarker {
	switch p.currentKind() {
	case lexer.TokenNumber, lexer.TokenString:
		m := p.Start()
		p.bump()
		return m.Complete(p, NodeLiteralExpr)

	case lexer.TokenIdent:
		cm := p.parseNameRefExpr()
		if !p.noStructLiteral && p.at(lexer.TokenLBrace) {
			return p.parseStructLiteralTail(cm)
		}
		return cm

	case lexer.TokenLParen:
		m := p.Start()
		p.bump()
		p.parseExpr(0)
		p.expect(lexer.TokenRParen)
		return m.Complete(p, NodeGroupExpr)

	case lexer.TokenLBrace:
		return p.parseBlockExpr()

	case lexer.TokenIf:
		return p.parseIfExpr()

	case lexer.TokenLoop:
		return p.parseLoopExpr()

	case lexer.TokenWhile:
		return p.parseWhileExpr()

	case lexer.TokenReturn:
		return p.parseReturnExpr()

	case lexer.TokenBreak:
		m := p.Start()
		p.bump()
		return m.Complete(p, NodeBreakExpr)

	case lexer.TokenContinue:
		m := p.Start()
		p.bump()
		return m.Complete(p, NodeContinueExpr)

	default:
		m := p.Start()
		p.skipToRecoveryPoint("expected expression, found " + p.currentKind().String())
		return m.Complete(p, NodeError)
	}
}

func (p *Parser) parseStructLiteralTail(name CompletedMarker) CompletedMarker {
	m := name.PrecedeBy(p)
	p.expect(lexer.TokenLBrace)
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		fm := p.Start()
		p.parseName()
		p.expect(lexer.TokenColon)
		p.parseExpr(0)
		fm.Complete(p, NodeStructLiteralField)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace)
	return m.Complete(p, NodeStructLiteralExpr)
}

// parseBlockExpr: "{" (item | tail-expr)* "}" — items terminated by ";"
// are statements; a final expression with no trailing ";" is the
// block's tail value (spec §4.2).
func (p *Parser) parseBlockExpr() CompletedMarker {
	m := p.Start()
	p.expect(lexer.TokenLBrace)
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		switch p.currentKind() {
		case lexer.TokenMod, lexer.TokenImport, lexer.TokenType_, lexer.TokenFn, lexer.TokenLet:
			p.parseItem()
			continue
		}

		noSemiOK := exprFormNeedsNoSemi(p.currentKind())
		em := p.Start()
		p.parseExpr(0)
		if p.accept(lexer.TokenSemi) {
			em.Complete(p, NodeExprItem)
			continue
		}
		if noSemiOK && !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
			em.Complete(p, NodeExprItem)
			continue
		}
		em.Abandon(p)
		break // tail expression: leave it as the block's last child
	}
	p.expect(lexer.TokenRBrace)
	return m.Complete(p, NodeBlockExpr)
}

func exprFormNeedsNoSemi(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIf, lexer.TokenLoop, lexer.TokenWhile, lexer.TokenLBrace:
		return true
	default:
		return false
	}
}

func (p *Parser) parseIfExpr() CompletedMarker {
	m := p.Start()
	p.expect(lexer.TokenIf)
	prev := p.noStructLiteral
	p.noStructLiteral = true
	p.parseExpr(0)
	p.noStructLiteral = prev
	p.parseBlockExpr()
	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			p.parseIfExpr()
		} else {
			p.parseBlockExpr()
		}
	}
	return m.Complete(p, NodeIfExpr)
}

func (p *Parser) parseLoopExpr() CompletedMarker {
	m := p.Start()
	p.expect(lexer.TokenLoop)
	p.parseBlockExpr()
	return m.Complete(p, NodeLoopExpr)
}

func (p *Parser) parseWhileExpr() CompletedMarker {
	m := p.Start()
	p.expect(lexer.TokenWhile)
	prev := p.noStructLiteral
	p.noStructLiteral = true
	p.parseExpr(0)
	p.noStructLiteral = prev
	p.parseBlockExpr()
	return m.Complete(p, NodeWhileExpr)
}

func (p *Parser) parseReturnExpr() CompletedMarker {
	m := p.Start()
	p.expect(lexer.TokenReturn)
	if p.canStartExpr(p.currentKind()) {
		p.parseExpr(0)
	}
	return m.Complete(p, NodeReturnExpr)
}

func (p *Parser) canStartExpr(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenSemi, lexer.TokenRBrace, lexer.TokenEOF, lexer.TokenComma, lexer.TokenRParen, lexer.TokenRBracket:
		return false
	default:
		return true
	}
}

func (p *Parser) parseCallTail(lhs CompletedMarker) CompletedMarker {
	m := lhs.PrecedeBy(p)
	p.parseArgList()
	return m.Complete(p, NodeCallExpr)
}

func (p *Parser) parseArgList() {
	m := p.Start()
	p.expect(lexer.TokenLParen)
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		p.parseExpr(1) // above assignment's binding power: `f(a = b)` is not an argument list of one assignment
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen)
	m.Complete(p, NodeArgList)
}

func (p *Parser) parseIndexTail(lhs CompletedMarker) CompletedMarker {
	m := lhs.PrecedeBy(p)
	p.bump() // '['
	p.parseExpr(0)
	p.expect(lexer.TokenRBracket)
	return m.Complete(p, NodeIndexExpr)
}
