// Package parser implements a Pratt (operator-precedence) parser over
// the token stream produced by internal/lexer, following the teacher's
// prefix/infix parse-function registry idiom.
package parser

import (
	"strconv"

	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/diagnostics"
	"github.com/serelang/sere/internal/lexer"
	"github.com/serelang/sere/internal/pipeline"
	"github.com/serelang/sere/internal/token"
)

type prefixParseFn func() ast.Expr
type infixParseFn func(left ast.Expr) ast.Expr

// Parser turns a buffered token stream into an ast.Block (the program).
type Parser struct {
	ts   pipeline.TokenStream
	file string
	errs *diagnostics.Collector

	cur  token.Token
	peek token.Token

	prefixFns map[token.TokenType]prefixParseFn
	infixFns  map[token.TokenType]infixParseFn
}

// New builds a Parser over ts; file is used only for diagnostic spans.
func New(ts pipeline.TokenStream, file string) *Parser {
	p := &Parser{ts: ts, file: file, errs: diagnostics.NewCollector()}
	p.prefixFns = map[token.TokenType]prefixParseFn{}
	p.infixFns = map[token.TokenType]infixParseFn{}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TEMPLATE, p.parseTemplateLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteralOrComprehension)
	p.registerPrefix(token.LBRACE, p.parseDictLiteralOrComprehension)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.IMPORT, p.parseImportExpression)
	p.registerPrefix(token.KW_INT, p.parseTypeLiteral)
	p.registerPrefix(token.KW_TEXT, p.parseTypeLiteral)
	p.registerPrefix(token.KW_BOOL, p.parseTypeLiteral)
	p.registerPrefix(token.KW_FLOAT, p.parseTypeLiteral)
	p.registerPrefix(token.KW_NUMBER, p.parseTypeLiteral)
	p.registerPrefix(token.KW_ANY, p.parseTypeLiteral)

	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.IN, token.AND, token.OR, token.QUESTION,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(token.HASH, p.parseTypeTestInfix)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixFns[t] = fn }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.ts.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peek, "expected next token to be %s, got %s", t, p.peek.Type)
	return false
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errs.Add(diagnostics.New(diagnostics.SyntaxError, diagnostics.PhaseParser, p.file, tok, format, args...))
}

// Errors returns every syntax error accumulated during this parse.
func (p *Parser) Errors() *diagnostics.Collector { return p.errs }

// ParseProgram parses the whole token stream as an implicit top-level
// block, terminated by EOF rather than an enclosing `}`.
func (p *Parser) ParseProgram() *ast.Block {
	return p.parseBlockBody(token.EOF)
}

// parseBlockBraced parses `{ <bindings> <result> }`; cur is the `{`.
func (p *Parser) parseBlockBraced() *ast.Block {
	startTok := p.cur
	p.nextToken() // consume `{`
	blk := p.parseBlockBody(token.RBRACE)
	blk.Token = startTok
	if !p.curTokenIs(token.RBRACE) {
		p.errorf(p.cur, "expected closing '}', got %s", p.cur.Type)
		return blk
	}
	return blk
}

// parseBlockBody parses bindings followed by a result expression, with
// cur already positioned at the first token of the block's content.
// It stops once cur is `until` (EOF for a program, `}` for a braced
// block) having already consumed the result expression.
func (p *Parser) parseBlockBody(until token.TokenType) *ast.Block {
	blk := &ast.Block{}
	blk.Token = p.cur

	for !p.curTokenIs(until) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.LET) {
			blk.Bindings = append(blk.Bindings, p.parseLetBinding())
			if p.peekTokenIs(token.SEMI) {
				p.nextToken()
			}
			p.nextToken()
			continue
		}
		if p.curTokenIs(token.TYPE) {
			blk.Bindings = append(blk.Bindings, p.parseTypeAliasBinding())
			if p.peekTokenIs(token.SEMI) {
				p.nextToken()
			}
			p.nextToken()
			continue
		}
		// Everything else is the block's result expression.
		blk.Result = p.parseExpression(config.LOWEST)
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		if until != token.EOF {
			p.nextToken()
		} else if p.peekTokenIs(token.EOF) {
			p.nextToken()
		}
		break
	}

	if blk.Result == nil {
		blk.Result = &ast.NullLiteral{}
	}
	return blk
}

// parseBlockOrExpr parses the right-hand side of `=`, a `then`/`else`
// clause, or an import default: `{` followed by `let`/`type` is a
// braced block, anything else is a bare expression wrapped in a Block
// with no bindings (every body is structurally a Block).
func (p *Parser) parseBlockOrExpr() *ast.Block {
	if p.curTokenIs(token.LBRACE) && (p.peekTokenIs(token.LET) || p.peekTokenIs(token.TYPE)) {
		return p.parseBlockBraced()
	}
	tok := p.cur
	expr := p.parseExpression(config.LOWEST)
	blk := &ast.Block{Result: expr}
	blk.Token = tok
	return blk
}

func (p *Parser) parseLetBinding() ast.Binding {
	startTok := p.cur // `let`
	p.nextToken()

	// A bare `ident` name followed directly by `:` or `=` is always a
	// plain (possibly type-annotated) identifier pattern, never a
	// function parameter: a pattern-function's parameter is a whole
	// separate pattern token, so `:` can never immediately follow a
	// function's own name. Anything else following the name (another
	// identifier, a literal, `[`, `{`, `_`) starts a parameter pattern.
	if p.curTokenIs(token.IDENT) && !p.peekTokenIs(token.ASSIGN) && !p.peekTokenIs(token.COLON) {
		name := &ast.Identifier{Name: p.cur.Lexeme}
		name.Token = p.cur
		p.nextToken()
		param := p.parsePattern()
		if !p.expectPeek(token.ASSIGN) {
			return &ast.LetFunctionBinding{Name: name, Param: param}
		}
		p.nextToken()
		body := p.parseBlockOrExpr()
		fb := &ast.LetFunctionBinding{Name: name, Param: param, Body: body}
		fb.Token = startTok
		return fb
	}

	pat := p.parsePattern()
	if !p.expectPeek(token.ASSIGN) {
		return &ast.LetBinding{Pattern: pat}
	}
	p.nextToken()
	val := p.parseBlockOrExpr()
	lb := &ast.LetBinding{Pattern: pat, Value: val}
	lb.Token = startTok
	return lb
}

func (p *Parser) parseTypeAliasBinding() ast.Binding {
	startTok := p.cur // `type`
	if !p.expectPeek(token.IDENT) {
		return &ast.TypeAliasBinding{}
	}
	name := &ast.Identifier{Name: p.cur.Lexeme}
	name.Token = p.cur
	if !p.expectPeek(token.ASSIGN) {
		return &ast.TypeAliasBinding{Name: name}
	}
	p.nextToken()
	typ := p.parseTypeExpr()
	tb := &ast.TypeAliasBinding{Name: name, Type: typ}
	tb.Token = startTok
	return tb
}

func (p *Parser) parseIdentifier() ast.Expr {
	id := &ast.Identifier{Name: p.cur.Lexeme}
	id.Token = p.cur
	return id
}

func (p *Parser) parseIntLiteral() ast.Expr {
	v, err := strconv.ParseInt(p.cur.Lexeme, 10, 64)
	if err != nil {
		p.errorf(p.cur, "could not parse %q as an integer", p.cur.Lexeme)
	}
	lit := &ast.IntLiteral{Value: v}
	lit.Token = p.cur
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	v, err := strconv.ParseFloat(p.cur.Lexeme, 64)
	if err != nil {
		p.errorf(p.cur, "could not parse %q as a float", p.cur.Lexeme)
	}
	lit := &ast.FloatLiteral{Value: v}
	lit.Token = p.cur
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expr {
	lit := &ast.TextLiteral{Value: p.cur.Literal.(string)}
	lit.Token = p.cur
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	lit := &ast.BoolLiteral{Value: p.curTokenIs(token.TRUE)}
	lit.Token = p.cur
	return lit
}

func (p *Parser) parseNullLiteral() ast.Expr {
	lit := &ast.NullLiteral{}
	lit.Token = p.cur
	return lit
}

func (p *Parser) parseTemplateLiteral() ast.Expr {
	raw, _ := p.cur.Literal.([]lexer.RawPart)
	lit := &ast.TemplateLiteral{}
	lit.Token = p.cur
	for _, part := range raw {
		if !part.IsExpr {
			lit.Parts = append(lit.Parts, ast.TemplatePart{Literal: part.Literal})
			continue
		}
		sub := New(lexer.NewTokenStream(lexer.New(part.ExprSrc)), p.file)
		expr := sub.parseExpression(config.LOWEST)
		if !sub.errs.Empty() {
			for _, e := range sub.errs.All() {
				p.errs.Add(e)
			}
		}
		lit.Parts = append(lit.Parts, ast.TemplatePart{Expr: expr})
	}
	return lit
}

func (p *Parser) parseGroupedExpression() ast.Expr {
	p.nextToken()
	expr := p.parseExpression(config.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return expr
	}
	return expr
}

func (p *Parser) parseUnaryExpression() ast.Expr {
	tok := p.cur
	op := tok.Lexeme
	if tok.Type == token.NOT {
		op = "not"
	}
	p.nextToken()
	operand := p.parseExpression(config.POSTFIX_PREC)
	u := &ast.UnaryExpr{Op: op, Operand: operand}
	u.Token = tok
	return u
}

func (p *Parser) parseIfExpression() ast.Expr {
	tok := p.cur
	p.nextToken()
	cond := p.parseExpression(config.LOWEST)
	if !p.expectPeek(token.THEN) {
		return cond
	}
	p.nextToken()
	then := p.parseBlockOrExpr()
	var elseBlk *ast.Block
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		elseBlk = p.parseBlockOrExpr()
	} else {
		elseBlk = &ast.Block{Result: &ast.NullLiteral{}}
	}
	ifx := &ast.IfExpr{Cond: cond, Then: then, Else: elseBlk}
	ifx.Token = tok
	return ifx
}

func (p *Parser) parseImportExpression() ast.Expr {
	tok := p.cur
	if !p.expectPeek(token.STRING) {
		return &ast.ImportExpr{}
	}
	path := p.cur.Literal.(string)
	imp := &ast.ImportExpr{Path: path}
	imp.Token = tok

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if p.expectPeek(token.KW_TEXT) {
			imp.AsText = true
		}
	}
	if p.peekTokenIs(token.OR) {
		p.nextToken()
		p.nextToken()
		imp.Default = p.parseExpression(config.DEFAULT_PREC)
	}
	return imp
}

func (p *Parser) parseTypeLiteral() ast.Expr {
	typ := p.parseTypeExpr()
	lit := &ast.TypeLiteral{Type: typ}
	if typ != nil {
		lit.Token = typ.Tok()
	}
	return lit
}
