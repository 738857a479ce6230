package parser

import (
	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/token"
)

// parseExpression is the Pratt core. Postfix forms (`.`, `[ ]`, `as`)
// bind tighter than anything else and are resolved immediately after
// the primary; juxtaposition (application) and the table-driven binary
// operators then compete in the usual precedence-climbing loop — a
// peek token with no table entry that can still start a primary is
// treated as an application argument rather than the end of the
// expression (spec.md §9: juxtaposition needs no surface token).
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf(p.cur, "cannot parse expression starting with %s", p.cur.Type)
		return nil
	}
	left := prefix()
	left = p.parsePostfixChain(left)

	for precedence < p.peekBindingPower() {
		if infix, ok := p.infixFns[p.peek.Type]; ok {
			p.nextToken()
			left = infix(left)
			continue
		}
		if config.TokensThatStartJuxtapositionArg[p.peek.Type] {
			tok := p.peek
			p.nextToken()
			arg := p.parseExpression(config.APPLY_PREC)
			apply := &ast.ApplyExpr{Fn: left, Arg: arg}
			apply.Token = tok
			left = apply
			continue
		}
		break
	}
	return left
}

// peekBindingPower returns the binding power of the peek token as
// either a table-registered infix operator, or — if it has none but
// can start a primary expression — the application precedence of
// juxtaposition.
func (p *Parser) peekBindingPower() int {
	if pr := config.PrecedenceOf(p.peek.Type); pr != config.LOWEST {
		return pr
	}
	if config.TokensThatStartJuxtapositionArg[p.peek.Type] {
		return config.APPLY_PREC
	}
	return config.LOWEST
}

// parsePostfixChain resolves zero or more `.name`, `[index]`, and
// `as <type>` suffixes, unconditionally tighter than any other
// production (spec.md §4.1 tier 1).
func (p *Parser) parsePostfixChain(left ast.Expr) ast.Expr {
	for {
		switch p.peek.Type {
		case token.DOT:
			tok := p.peek
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return left
			}
			m := &ast.MemberExpr{Target: left, Name: p.cur.Lexeme}
			m.Token = tok
			left = m
		case token.LBRACKET:
			tok := p.peek
			p.nextToken()
			p.nextToken()
			idx := p.parseExpression(config.LOWEST)
			if !p.expectPeek(token.RBRACKET) {
				return left
			}
			ix := &ast.IndexExpr{Target: left, Index: idx}
			ix.Token = tok
			left = ix
		case token.AS:
			tok := p.peek
			p.nextToken()
			p.nextToken()
			typ := p.parseTypeExpr()
			c := &ast.CastExpr{Target: left, Type: typ}
			c.Token = tok
			left = c
		default:
			return left
		}
	}
}

func (p *Parser) parseBinaryExpression(left ast.Expr) ast.Expr {
	tok := p.cur
	op := string(tok.Type)
	switch tok.Type {
	case token.AND:
		op = "and"
	case token.OR:
		op = "or"
	case token.IN:
		op = "in"
	case token.QUESTION:
		op = "?"
	}
	precedence := config.PrecedenceOf(tok.Type)
	p.nextToken()
	right := p.parseExpression(precedence)
	b := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	b.Token = tok
	return b
}

// parseTypeTestInfix implements `<expr> # <type>`: the right side is a
// type expression, not a value expression, so it cannot share the
// generic parseBinaryExpression shape.
func (p *Parser) parseTypeTestInfix(left ast.Expr) ast.Expr {
	tok := p.cur
	p.nextToken()
	typ := p.parseTypeExpr()
	t := &ast.TypeTestExpr{Value: left, Type: typ}
	t.Token = tok
	return t
}
