package lexer

import (
	"testing"

	"github.com/serelang/sere/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `let x = 1 + 2 * (3 - y) in [a, ..b] | ?int`

	tests := []struct {
		wantType token.TokenType
		wantLit  string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.PLUS, "+"},
		{token.INT, "2"},
		{token.ASTERISK, "*"},
		{token.LPAREN, "("},
		{token.INT, "3"},
		{token.MINUS, "-"},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.IN, "in"},
		{token.LBRACKET, "["},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.ELLIPSIS, ".."},
		{token.IDENT, "b"},
		{token.RBRACKET, "]"},
		{token.PIPE, "|"},
		{token.QUESTION, "?"},
		{token.KW_INT, "int"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %q, want %q (literal %q)", i, tok.Type, tt.wantType, tok.Literal)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("type = %q, want STRING", tok.Type)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("literal = %q, want %q", tok.Literal, "hello\nworld")
	}
}

func TestLineComment(t *testing.T) {
	l := New("1 // trailing comment\n2")
	first := l.NextToken()
	second := l.NextToken()
	if first.Lexeme != "1" || second.Lexeme != "2" {
		t.Fatalf("got %q, %q; want 1, 2 (comment should be skipped)", first.Lexeme, second.Lexeme)
	}
}

func TestReservedWordsVsIdentifiers(t *testing.T) {
	l := New("if ifx")
	first := l.NextToken()
	second := l.NextToken()
	if first.Type != token.IF {
		t.Fatalf("first token type = %q, want IF", first.Type)
	}
	if second.Type != token.IDENT || second.Lexeme != "ifx" {
		t.Fatalf("second token = %+v, want IDENT ifx (longest-match keyword lookup)", second)
	}
}
