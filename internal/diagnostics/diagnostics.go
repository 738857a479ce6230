// Package diagnostics implements the error taxonomy every phase of the
// language (lexer, parser, pattern matcher, type checker, evaluator,
// import resolver) reports through: a coded, phase-tagged error that
// always carries the source span of the file it occurred in.
package diagnostics

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/serelang/sere/internal/token"
)

// Phase is the pipeline stage an error was raised in.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseMatcher  Phase = "matcher"
	PhaseTypes    Phase = "types"
	PhaseEval     Phase = "eval"
	PhaseImport   Phase = "import"
)

// Kind is one of the nine error kinds named in the specification.
type Kind string

const (
	SyntaxError       Kind = "SyntaxError"
	UnboundIdentifier Kind = "UnboundIdentifier"
	TypeMismatch      Kind = "TypeMismatch"
	OverflowOrDomain  Kind = "OverflowOrDomain"
	IndexError        Kind = "IndexError"
	PatternMatchError Kind = "PatternMatchError"
	ImportError       Kind = "ImportError"
	NonRepresentable  Kind = "NonRepresentable"
	Cancelled         Kind = "Cancelled"
)

// Error is a single diagnostic: a kind, the phase it was raised in, a
// human message, and the source span (file + token position) it
// belongs to. It is fatal — the specification has no recoverable
// errors except `or <default>` on import and pattern fallthrough,
// both of which are handled by the evaluator catching this type.
type Error struct {
	Kind    Kind
	Phase   Phase
	File    string
	Tok     token.Token
	Message string

	// oerr carries structured key/value context (span, phase, code) and
	// chains an inner error when one import's failure wraps another's.
	oerr error
}

func (e *Error) Error() string {
	if e.Tok.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: [%s] %s", e.File, e.Tok.Line, e.Tok.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.File, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.oerr }

// New builds a fresh Error, attaching oops context for the kind/phase/
// span so that downstream structured logging can pull them back out.
func New(kind Kind, phase Phase, file string, tok token.Token, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	oe := oops.
		Code(string(kind)).
		In(string(phase)).
		With("file", file).
		With("line", tok.Line).
		With("column", tok.Column).
		Errorf("%s", msg)
	return &Error{Kind: kind, Phase: phase, File: file, Tok: tok, Message: msg, oerr: oe}
}

// Wrap builds an ImportError whose cause is the inner module's own
// diagnostic, chaining oops context across the import boundary instead
// of flattening it into a single string.
func Wrap(file string, tok token.Token, cause error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	oe := oops.
		Code(string(ImportError)).
		In(string(PhaseImport)).
		With("file", file).
		Wrapf(cause, "%s", msg)
	return &Error{Kind: ImportError, Phase: PhaseImport, File: file, Tok: tok, Message: msg, oerr: oe}
}

// AsError reports whether err is (or wraps) a diagnostics.Error, and
// returns it if so — used by the evaluator's `or <default>` recovery
// and by the pattern-alternative fallthrough to distinguish "this
// import/pattern failed" from an unexpected internal panic.
func AsError(err error) (*Error, bool) {
	var e *Error
	for err != nil {
		if de, ok := err.(*Error); ok {
			e = de
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return nil, false
}
