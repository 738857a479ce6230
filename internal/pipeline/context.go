package pipeline

import (
	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/diagnostics"
)

// Context holds the data threaded between pipeline stages: lexing
// produces a TokenStream, parsing consumes it and produces an AstRoot
// (or Errors).
type Context struct {
	SourceCode  string
	FilePath    string // absolute key of the source, used in diagnostics
	TokenStream TokenStream
	AstRoot     ast.Node
	Errors      []*diagnostics.Error

	// Loader is the import resolver in scope for this parse/eval, kept
	// as interface{} to avoid an import cycle with internal/loader.
	Loader interface{}
}

// New creates an initialized Context for the given source.
func New(source string) *Context {
	return &Context{
		SourceCode: source,
		Errors:     []*diagnostics.Error{},
	}
}
