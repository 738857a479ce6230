package pipeline

import (
	"github.com/serelang/sere/internal/token"
)

// Processor is one stage of the lex -> parse pipeline.
type Processor interface {
	Process(ctx *Context) *Context
}

// TokenStream defines the contract for a buffered token stream.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token

	// Peek returns the next n tokens without consuming them.
	// If the stream has fewer than n tokens, it returns all remaining tokens.
	Peek(n int) []token.Token
}
