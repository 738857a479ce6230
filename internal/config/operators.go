// Package config is the single source of truth for the language's fixed
// operator-precedence ladder and built-in pattern table, following the
// teacher's centralized-table idiom (one table driving both the
// parser's lookups and a documentation dump).
package config

import "github.com/serelang/sere/internal/token"

// Precedence levels, tightest (highest number) first, per spec.md §4.1:
//  1. postfix access/cast            (handled structurally, not via this table)
//  2. juxtaposition (application)    — highest binary precedence
//  3. *  /  %
//  4. +  -
//  5. ==  !=  >  >=  <  <=  in  #
//  6. and
//  7. or
//  8. ?   (default-on-null, lowest)
const (
	LOWEST = iota
	DEFAULT_PREC // `?`            — loosest real operator
	OR_PREC
	AND_PREC
	COMPARE_PREC // == != > >= < <= in #
	SUM_PREC     // + -
	PRODUCT_PREC // * / %
	APPLY_PREC   // juxtaposition
	POSTFIX_PREC // . [ ] as      — tightest
)

// precedences maps infix operator tokens to their binding power. Tokens
// absent from this table (LPAREN, LBRACKET, DOT, KW_AS-position "as")
// are handled as structural postfix productions in the parser, not as
// table-driven infix operators, matching the teacher's own split
// between `precedences` map and special-cased LPAREN-call parsing.
var precedences = map[token.TokenType]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.QUESTION:  DEFAULT_PREC,
	token.EQ:       COMPARE_PREC,
	token.NOT_EQ:   COMPARE_PREC,
	token.LT:       COMPARE_PREC,
	token.LTE:      COMPARE_PREC,
	token.GT:       COMPARE_PREC,
	token.GTE:      COMPARE_PREC,
	token.IN:       COMPARE_PREC,
	token.HASH:     COMPARE_PREC,
	token.PLUS:     SUM_PREC,
	token.MINUS:    SUM_PREC,
	token.ASTERISK: PRODUCT_PREC,
	token.SLASH:    PRODUCT_PREC,
	token.PERCENT:  PRODUCT_PREC,
}

// PrecedenceOf returns the infix binding power of tok, or LOWEST if it
// is not an infix operator at all.
func PrecedenceOf(tok token.TokenType) int {
	if p, ok := precedences[tok]; ok {
		return p
	}
	return LOWEST
}

// TokensThatStartJuxtapositionArg are the token types that can begin a
// primary expression and therefore, appearing immediately after another
// primary with no intervening operator, signal juxtaposition (function
// application) rather than the end of the expression.
var TokensThatStartJuxtapositionArg = map[token.TokenType]bool{
	token.IDENT:      true,
	token.INT:        true,
	token.FLOAT:      true,
	token.STRING:     true,
	token.TEMPLATE:   true,
	token.TRUE:       true,
	token.FALSE:      true,
	token.NULL:       true,
	token.UNDERSCORE: true,
	token.LPAREN:     true,
	token.LBRACE:     true,
	token.LBRACKET:   true,
	token.NOT:        true,
	token.MINUS:      true,
}
