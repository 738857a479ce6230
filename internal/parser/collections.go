package parser

import (
	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/token"
)

// parseForClause parses `for <pattern> in <source>`, cur resting on
// `for` at entry. The source expression naturally stops at a following
// `for`, `if`, `]`, or `}` — none of them is a registered infix
// operator or a juxtaposition starter, so parseExpression(LOWEST)
// returns without special-casing the terminator.
func (p *Parser) parseForClause() ast.ForClause {
	p.nextToken() // pattern's first token
	pat := p.parsePattern()
	if !p.expectPeek(token.IN) {
		return ast.ForClause{Pattern: pat}
	}
	p.nextToken()
	src := p.parseExpression(config.LOWEST)
	return ast.ForClause{Pattern: pat, Source: src}
}

// --- list literals & comprehensions ---

func (p *Parser) parseListLiteralOrComprehension() ast.Expr {
	tok := p.cur // '['
	p.nextToken()
	if p.curTokenIs(token.RBRACKET) {
		lit := &ast.ListLiteral{}
		lit.Token = tok
		return lit
	}
	if p.curTokenIs(token.ELLIPSIS) {
		item := p.parseListItemAt()
		return p.parseListLiteralTail(tok, []ast.ListItem{item})
	}
	first := p.parseExpression(config.LOWEST)
	if p.peekTokenIs(token.FOR) {
		return p.parseListComprehensionTail(tok, first)
	}
	item := ast.ListItem{Value: first}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		item.Guard = p.parseExpression(config.LOWEST)
	}
	return p.parseListLiteralTail(tok, []ast.ListItem{item})
}

// parseListItemAt parses one list-literal item (`..spread`, `value`,
// or `value if guard`), cur resting on the item's first token.
func (p *Parser) parseListItemAt() ast.ListItem {
	var it ast.ListItem
	if p.curTokenIs(token.ELLIPSIS) {
		it.Spread = true
		p.nextToken()
	}
	it.Value = p.parseExpression(config.LOWEST)
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		it.Guard = p.parseExpression(config.LOWEST)
	}
	return it
}

func (p *Parser) parseListLiteralTail(tok token.Token, items []ast.ListItem) ast.Expr {
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if p.curTokenIs(token.RBRACKET) {
			break
		}
		items = append(items, p.parseListItemAt())
	}
	p.expectPeek(token.RBRACKET)
	lit := &ast.ListLiteral{Items: items}
	lit.Token = tok
	return lit
}

func (p *Parser) parseListComprehensionTail(tok token.Token, body ast.Expr) ast.Expr {
	p.nextToken() // cur = FOR
	comp := &ast.ListComprehension{Body: body}
	comp.Token = tok
	comp.Clauses = append(comp.Clauses, p.parseForClause())
	for p.peekTokenIs(token.FOR) {
		p.nextToken()
		comp.Clauses = append(comp.Clauses, p.parseForClause())
	}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		comp.Guard = p.parseExpression(config.LOWEST)
	}
	p.expectPeek(token.RBRACKET)
	return comp
}

// --- dict literals & comprehensions ---

func (p *Parser) parseDictLiteralOrComprehension() ast.Expr {
	tok := p.cur // '{'
	p.nextToken()
	if p.curTokenIs(token.RBRACE) {
		lit := &ast.DictLiteral{}
		lit.Token = tok
		return lit
	}
	if p.curTokenIs(token.ELLIPSIS) {
		item := p.parseDictItemAt()
		return p.parseDictLiteralTail(tok, []ast.DictItem{item})
	}
	key, value := p.parseDictKeyValue()
	if p.peekTokenIs(token.FOR) {
		return p.parseDictComprehensionTail(tok, key, value)
	}
	item := ast.DictItem{Key: key, Value: value}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		item.Guard = p.parseExpression(config.LOWEST)
	}
	return p.parseDictLiteralTail(tok, []ast.DictItem{item})
}

// parseDictKeyValue parses `key: value`, where key is `[expr]` for a
// computed key, a quoted string, or any other token's lexeme taken as
// a bareword (so reserved words are usable as dict keys).
func (p *Parser) parseDictKeyValue() (ast.Expr, ast.Expr) {
	var key ast.Expr
	switch {
	case p.curTokenIs(token.LBRACKET):
		p.nextToken()
		key = p.parseExpression(config.LOWEST)
		p.expectPeek(token.RBRACKET)
	case p.curTokenIs(token.STRING):
		k := &ast.TextLiteral{Value: p.cur.Literal.(string)}
		k.Token = p.cur
		key = k
	default:
		k := &ast.TextLiteral{Value: p.cur.Lexeme}
		k.Token = p.cur
		key = k
	}
	if !p.expectPeek(token.COLON) {
		return key, nil
	}
	p.nextToken()
	value := p.parseExpression(config.LOWEST)
	return key, value
}

func (p *Parser) parseDictItemAt() ast.DictItem {
	if p.curTokenIs(token.ELLIPSIS) {
		p.nextToken()
		val := p.parseExpression(config.LOWEST)
		it := ast.DictItem{Spread: true, Value: val}
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			it.Guard = p.parseExpression(config.LOWEST)
		}
		return it
	}
	key, value := p.parseDictKeyValue()
	it := ast.DictItem{Key: key, Value: value}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		it.Guard = p.parseExpression(config.LOWEST)
	}
	return it
}

func (p *Parser) parseDictLiteralTail(tok token.Token, items []ast.DictItem) ast.Expr {
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if p.curTokenIs(token.RBRACE) {
			break
		}
		items = append(items, p.parseDictItemAt())
	}
	p.expectPeek(token.RBRACE)
	lit := &ast.DictLiteral{Items: items}
	lit.Token = tok
	return lit
}

func (p *Parser) parseDictComprehensionTail(tok token.Token, key, value ast.Expr) ast.Expr {
	// A bareword key in a comprehension names a variable bound by its
	// for-clauses, so it is read as an identifier, not as literal text.
	if k, ok := key.(*ast.TextLiteral); ok && k.Token.Type == token.IDENT {
		id := &ast.Identifier{Name: k.Value}
		id.Token = k.Token
		key = id
	}
	p.nextToken() // cur = FOR
	comp := &ast.DictComprehension{KeyExpr: key, ValueExpr: value}
	comp.Token = tok
	comp.Clauses = append(comp.Clauses, p.parseForClause())
	for p.peekTokenIs(token.FOR) {
		p.nextToken()
		comp.Clauses = append(comp.Clauses, p.parseForClause())
	}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		comp.Guard = p.parseExpression(config.LOWEST)
	}
	p.expectPeek(token.RBRACE)
	return comp
}
