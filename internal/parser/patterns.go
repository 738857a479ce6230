package parser

import (
	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/token"
)

// parsePattern parses anything that can stand left of `=` in a let
// binding, a function parameter, a for-clause binder, or a nested
// sub-pattern. Like an expression, a pattern leaves cur resting on its
// own last token.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Type {
	case token.UNDERSCORE:
		return ast.NewWildcard(p.cur)
	case token.IDENT:
		return p.parseIdentifierPattern()
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteralPattern()
	case token.LBRACKET:
		return p.parseListPattern()
	case token.LBRACE:
		return p.parseDictPattern()
	default:
		p.errorf(p.cur, "expected a pattern, got %s", p.cur.Type)
		return ast.NewWildcard(p.cur)
	}
}

func (p *Parser) parseIdentifierPattern() ast.Pattern {
	tok := p.cur
	idp := &ast.IdentifierPattern{Name: tok.Lexeme}
	idp.Token = tok
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		idp.Type = p.parseTypeExpr()
	}
	return idp
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	tok := p.cur
	var val ast.Expr
	switch tok.Type {
	case token.INT:
		val = p.parseIntLiteral()
	case token.FLOAT:
		val = p.parseFloatLiteral()
	case token.STRING:
		val = p.parseStringLiteral()
	case token.TRUE, token.FALSE:
		val = p.parseBoolLiteral()
	case token.NULL:
		val = p.parseNullLiteral()
	}
	lp := &ast.LiteralPattern{Value: val}
	lp.Token = tok
	return lp
}

// parseListPattern parses `[ p1, p2, .. ]` with at most one `..` rest
// marker, encoded positionally (see ast.ListPattern).
func (p *Parser) parseListPattern() ast.Pattern {
	tok := p.cur // '['
	p.nextToken()
	lp := &ast.ListPattern{RestPos: -1}
	lp.Token = tok
	if p.curTokenIs(token.RBRACKET) {
		return lp
	}
	for {
		if p.curTokenIs(token.ELLIPSIS) {
			if lp.RestPos != -1 {
				p.errorf(p.cur, "a list pattern may have only one '..' rest marker")
			} else {
				lp.RestPos = len(lp.Elems)
			}
		} else {
			lp.Elems = append(lp.Elems, p.parsePattern())
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(token.RBRACKET) {
				break
			}
			continue
		}
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			break
		}
		p.errorf(p.peek, "expected ',' or ']' in list pattern, got %s", p.peek.Type)
		break
	}
	if !p.curTokenIs(token.RBRACKET) {
		p.errorf(p.cur, "expected ']' to close list pattern, got %s", p.cur.Type)
	}
	return lp
}

// parseDictPattern parses `{ name[: T], ..., .. }`. Every field is the
// `identifier[: T]` shorthand: there is no renaming sub-pattern form,
// the field always binds a variable named after its key.
func (p *Parser) parseDictPattern() ast.Pattern {
	tok := p.cur // '{'
	p.nextToken()
	dp := &ast.DictPattern{}
	dp.Token = tok
	if p.curTokenIs(token.RBRACE) {
		return dp
	}
	for {
		if p.curTokenIs(token.ELLIPSIS) {
			dp.Open = true
			p.nextToken()
			break
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorf(p.cur, "expected a field name in dict pattern, got %s", p.cur.Type)
			break
		}
		fieldTok := p.cur
		name := p.cur.Lexeme
		var typ ast.TypeExpr
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseTypeExpr()
		}
		idp := &ast.IdentifierPattern{Name: name, Type: typ}
		idp.Token = fieldTok
		dp.Fields = append(dp.Fields, ast.DictPatternField{Key: name, Pattern: idp})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(token.RBRACE) {
				break
			}
			continue
		}
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		p.errorf(p.peek, "expected ',' or '}' in dict pattern, got %s", p.peek.Type)
		break
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorf(p.cur, "expected '}' to close dict pattern, got %s", p.cur.Type)
	}
	return dp
}
