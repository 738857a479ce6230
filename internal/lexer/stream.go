package lexer

import (
	"github.com/serelang/sere/internal/pipeline"
	"github.com/serelang/sere/internal/token"
)

const lookaheadWatermark = 10

// bufferedLexer buffers just enough tokens ahead to let the parser
// peek past the current token — juxtaposition detection needs exactly
// one token of lookahead to tell "start of an argument" from "start of
// the next statement".
type bufferedLexer struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) pipeline.TokenStream {
	return &bufferedLexer{l: l}
}

func (bl *bufferedLexer) Next() token.Token {
	if bl.pos < len(bl.buffer) {
		tok := bl.buffer[bl.pos]
		bl.pos++
		return tok
	}
	return bl.l.NextToken()
}

func (bl *bufferedLexer) Peek(n int) []token.Token {
	for len(bl.buffer)-bl.pos < n {
		next := bl.l.NextToken()
		bl.buffer = append(bl.buffer, next)
		if next.Type == token.EOF {
			break
		}
	}
	if bl.pos > lookaheadWatermark {
		bl.buffer = bl.buffer[bl.pos:]
		bl.pos = 0
	}
	end := bl.pos + n
	if end > len(bl.buffer) {
		end = len(bl.buffer)
	}
	return bl.buffer[bl.pos:end]
}

// Processor wires a Lexer into a pipeline.Context as a TokenStream.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.TokenStream = NewTokenStream(New(ctx.SourceCode))
	return ctx
}

var _ pipeline.TokenStream = (*bufferedLexer)(nil)
