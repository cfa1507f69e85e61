package lexer

import "testing"

func collect(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Logf("lex error on %q: %v", tok.Text, err)
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return toks
}

func TestNextTokenSimpleKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenType
	}{
		{"", []TokenType{TokenEOF}},
		{"fn", []TokenType{TokenFn, TokenEOF}},
		{"foo_2", []TokenType{TokenIdent, TokenEOF}},
		{"123", []TokenType{TokenNumber, TokenEOF}},
		{`"hi"`, []TokenType{TokenString, TokenEOF}},
		{"== != <= >= && || -> :: ...", []TokenType{
			TokenAssign, TokenAssign, TokenWhitespace,
			TokenBang, TokenAssign, TokenWhitespace,
			TokenLt, TokenAssign, TokenWhitespace,
			TokenGt, TokenAssign, TokenWhitespace,
			TokenAmp, TokenAmp, TokenWhitespace,
			TokenPipe, TokenPipe, TokenWhitespace,
			TokenMinus, TokenGt, TokenWhitespace,
			TokenColon, TokenColon, TokenWhitespace,
			TokenDot, TokenDot, TokenDot, TokenEOF,
		}},
	}

	for _, tt := range tests {
		toks := collect(t, tt.src)
		if len(toks) != len(tt.want) {
			t.Fatalf("%q: got %d tokens, want %d (%v)", tt.src, len(toks), len(tt.want), toks)
		}
		for i, tok := range toks {
			if tok.Type != tt.want[i] {
				t.Errorf("%q: token %d = %s, want %s", tt.src, i, tok.Type, tt.want[i])
			}
		}
	}
}

func TestNoCompositeTokensEmittedDirectly(t *testing.T) {
	// Composites are never single lexer tokens; the lexer only ever
	// emits the simple tokens CompositeSpellings is built from.
	toks := collect(t, "==")
	for _, tok := range toks {
		switch tok.Type {
		case TokenEqEq, TokenNotEq, TokenLtEq, TokenGtEq, TokenAndAnd, TokenOrOr, TokenArrow, TokenColonColon, TokenEllipsis:
			t.Fatalf("lexer emitted composite token %s directly", tok.Type)
		}
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := New(`"abc`)
	tok, err := l.Next()
	if err == nil {
		t.Fatalf("expected error for unterminated string")
	}
	if tok.Type != TokenString {
		t.Fatalf("got %s, want TokenString with error", tok.Type)
	}
}

func TestTabOutsideWhitespaceIsError(t *testing.T) {
	l := New("\tfn")
	_, err := l.Next()
	if err == nil {
		t.Fatalf("expected error for leading tab")
	}
}

func TestCompositeSpellingsCoverTable(t *testing.T) {
	want := []TokenType{TokenEqEq, TokenNotEq, TokenLtEq, TokenGtEq, TokenAndAnd, TokenOrOr, TokenArrow, TokenColonColon, TokenEllipsis}
	for _, k := range want {
		if _, ok := CompositeSpellings[k]; !ok {
			t.Errorf("CompositeSpellings missing entry for %s", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if LookupKeyword("fn") != TokenFn {
		t.Errorf("fn should be a keyword")
	}
	if LookupKeyword("foo") != TokenIdent {
		t.Errorf("foo should not be a keyword")
	}
}
