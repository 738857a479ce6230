package parser

import (
	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/token"
)

var primitiveNames = map[token.TokenType]string{
	token.KW_INT:    "int",
	token.KW_TEXT:   "text",
	token.KW_BOOL:   "bool",
	token.KW_FLOAT:  "float",
	token.KW_NUMBER: "number",
	token.KW_ANY:    "any",
}

// parseTypeExpr parses a full type expression, cur resting on its
// opening token and returning with cur on its last token. Union (`|`)
// is the loosest form, climbed on top of parseTypePrimary.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	first := p.parseTypePrimary()
	if !p.peekTokenIs(token.PIPE) {
		return first
	}
	u := &ast.UnionType{Options: []ast.TypeExpr{first}}
	u.Token = first.Tok()
	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		u.Options = append(u.Options, p.parseTypePrimary())
	}
	return u
}

func (p *Parser) parseTypePrimary() ast.TypeExpr {
	tok := p.cur
	switch tok.Type {
	case token.KW_INT, token.KW_TEXT, token.KW_BOOL, token.KW_FLOAT, token.KW_NUMBER, token.KW_ANY:
		pt := &ast.PrimitiveType{Name: primitiveNames[tok.Type]}
		pt.Token = tok
		return pt
	case token.IDENT:
		at := &ast.AliasRefType{Name: tok.Lexeme}
		at.Token = tok
		return at
	case token.QUESTION:
		p.nextToken()
		inner := p.parseTypePrimary()
		ot := &ast.OptionalType{Inner: inner}
		ot.Token = tok
		return ot
	case token.LBRACKET:
		p.nextToken()
		elem := p.parseTypeExpr()
		p.expectPeek(token.RBRACKET)
		lt := &ast.ListType{Elem: elem}
		lt.Token = tok
		return lt
	case token.LPAREN:
		p.nextToken()
		var elems []ast.TypeExpr
		if !p.curTokenIs(token.RPAREN) {
			elems = append(elems, p.parseTypeExpr())
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parseTypeExpr())
			}
			p.expectPeek(token.RPAREN)
		}
		tt := &ast.TupleType{Elems: elems}
		tt.Token = tok
		return tt
	case token.LBRACE:
		return p.parseBraceType(tok)
	default:
		p.errorf(p.cur, "expected a type expression, got %s", p.cur.Type)
		pt := &ast.PrimitiveType{Name: "any"}
		pt.Token = tok
		return pt
	}
}

// parseBraceType resolves the `{` ambiguity between a dict type `{T}`
// and a record type `{ key: T, ... }`: a bareword immediately followed
// by `:` commits to the record form, anything else is a single
// dict-value type.
func (p *Parser) parseBraceType(tok token.Token) ast.TypeExpr {
	isRecord := false
	if p.peekTokenIs(token.IDENT) {
		if ahead := p.ts.Peek(1); len(ahead) > 0 && ahead[0].Type == token.COLON {
			isRecord = true
		}
	}
	if p.peekTokenIs(token.ELLIPSIS) || p.peekTokenIs(token.RBRACE) {
		isRecord = true
	}
	if isRecord {
		return p.parseRecordType(tok)
	}
	p.nextToken()
	elem := p.parseTypeExpr()
	p.expectPeek(token.RBRACE)
	dt := &ast.DictType{Elem: elem}
	dt.Token = tok
	return dt
}

func (p *Parser) parseRecordType(tok token.Token) ast.TypeExpr {
	p.nextToken() // consume '{'
	rt := &ast.RecordType{}
	rt.Token = tok
	if p.curTokenIs(token.RBRACE) {
		return rt
	}
	for {
		if p.curTokenIs(token.ELLIPSIS) {
			rt.Open = true
			p.nextToken()
			break
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorf(p.cur, "expected a field name in record type, got %s", p.cur.Type)
			break
		}
		key := p.cur.Lexeme
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		typ := p.parseTypeExpr()
		rt.Fields = append(rt.Fields, ast.RecordTypeField{Key: key, Type: typ})

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
		p.errorf(p.peek, "expected ',' or '}' in record type, got %s", p.peek.Type)
		break
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorf(p.cur, "expected '}' to close record type, got %s", p.cur.Type)
	}
	return rt
}
