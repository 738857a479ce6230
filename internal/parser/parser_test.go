package parser

import (
	"testing"

	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Block {
	t.Helper()
	ts := lexer.NewTokenStream(lexer.New(src))
	p := New(ts, "<test>")
	blk := p.ParseProgram()
	if !p.Errors().Empty() {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors().All())
	}
	return blk
}

func TestParseLetAndArithmeticResult(t *testing.T) {
	blk := parseProgram(t, "let x = 1;\nlet y = 2;\nx + y * 3")
	if len(blk.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(blk.Bindings))
	}
	bin, ok := blk.Result.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("result = %T, want *ast.BinaryExpr", blk.Result)
	}
	if bin.Op != "+" {
		t.Fatalf("op = %q, want +", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("right side = %+v, want a '*' binary expr (precedence)", bin.Right)
	}
}

func TestParseFunctionAlternatives(t *testing.T) {
	blk := parseProgram(t, "let f 0 = 1;\nlet f n = n;\nf 5")
	if len(blk.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2 consecutive alternatives", len(blk.Bindings))
	}
	for _, b := range blk.Bindings {
		fb, ok := b.(*ast.LetFunctionBinding)
		if !ok {
			t.Fatalf("binding = %T, want *ast.LetFunctionBinding", b)
		}
		if fb.Name.Name != "f" {
			t.Fatalf("name = %q, want f", fb.Name.Name)
		}
	}
}

// A type-annotated simple binding `let name: T = ...` must not be
// mistaken for a pattern-function definition: `:` can never directly
// follow a function's own name, only a parameter pattern's name.
func TestParseAnnotatedLetBindingIsNotAFunction(t *testing.T) {
	blk := parseProgram(t, `let debug: int = 0;
debug`)
	if len(blk.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(blk.Bindings))
	}
	lb, ok := blk.Bindings[0].(*ast.LetBinding)
	if !ok {
		t.Fatalf("binding = %T, want *ast.LetBinding", blk.Bindings[0])
	}
	idp, ok := lb.Pattern.(*ast.IdentifierPattern)
	if !ok || idp.Name != "debug" || idp.Type == nil {
		t.Fatalf("pattern = %+v, want an annotated identifier pattern named debug", lb.Pattern)
	}
}

func TestParseListLiteralAndSpread(t *testing.T) {
	blk := parseProgram(t, "[1, 2, ..xs, 3 if true]")
	lit, ok := blk.Result.(*ast.ListLiteral)
	if !ok {
		t.Fatalf("result = %T, want *ast.ListLiteral", blk.Result)
	}
	if len(lit.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(lit.Items))
	}
	if !lit.Items[2].Spread {
		t.Fatalf("item 2 should be a spread item")
	}
	if lit.Items[3].Guard == nil {
		t.Fatalf("item 3 should carry an 'if' guard")
	}
}

func TestParseListComprehension(t *testing.T) {
	blk := parseProgram(t, "[x * 2 for x in xs if x > 0]")
	lc, ok := blk.Result.(*ast.ListComprehension)
	if !ok {
		t.Fatalf("result = %T, want *ast.ListComprehension", blk.Result)
	}
	if len(lc.Clauses) != 1 {
		t.Fatalf("got %d clauses, want 1", len(lc.Clauses))
	}
	if lc.Guard == nil {
		t.Fatalf("expected an 'if' guard on the comprehension")
	}
}

func TestParseDictLiteral(t *testing.T) {
	blk := parseProgram(t, `{a: 1, "b": 2, [c]: 3}`)
	dl, ok := blk.Result.(*ast.DictLiteral)
	if !ok {
		t.Fatalf("result = %T, want *ast.DictLiteral", blk.Result)
	}
	if len(dl.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(dl.Items))
	}
}

func TestParsePostfixChain(t *testing.T) {
	blk := parseProgram(t, "a.b[0] as int")
	cast, ok := blk.Result.(*ast.CastExpr)
	if !ok {
		t.Fatalf("result = %T, want *ast.CastExpr", blk.Result)
	}
	idx, ok := cast.Target.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("cast target = %T, want *ast.IndexExpr", cast.Target)
	}
	member, ok := idx.Target.(*ast.MemberExpr)
	if !ok || member.Name != "b" {
		t.Fatalf("index target = %+v, want MemberExpr{Name: b}", idx.Target)
	}
}

func TestParseTypeAliasAndUnion(t *testing.T) {
	blk := parseProgram(t, "type T = int | text;\nlet v: T = 1;\nv")
	alias, ok := blk.Bindings[0].(*ast.TypeAliasBinding)
	if !ok {
		t.Fatalf("binding 0 = %T, want *ast.TypeAliasBinding", blk.Bindings[0])
	}
	if _, ok := alias.Type.(*ast.UnionType); !ok {
		t.Fatalf("alias type = %T, want *ast.UnionType", alias.Type)
	}
}

func TestParseListPatternRestPositions(t *testing.T) {
	blk := parseProgram(t, "let [a, b, ..] = xs;\nlet [.., y, z] = xs;\na")
	trailing := blk.Bindings[0].(*ast.LetBinding).Pattern.(*ast.ListPattern)
	if trailing.RestPos != len(trailing.Elems) {
		t.Fatalf("trailing-spread RestPos = %d, want %d", trailing.RestPos, len(trailing.Elems))
	}
	leading := blk.Bindings[1].(*ast.LetBinding).Pattern.(*ast.ListPattern)
	if leading.RestPos != 0 {
		t.Fatalf("leading-spread RestPos = %d, want 0", leading.RestPos)
	}
}

func TestParseDictPatternShorthandAndOpen(t *testing.T) {
	blk := parseProgram(t, "let {name, age: int, ..} = person;\nname")
	dp := blk.Bindings[0].(*ast.LetBinding).Pattern.(*ast.DictPattern)
	if !dp.Open {
		t.Fatalf("expected Open == true for trailing '..'")
	}
	if len(dp.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(dp.Fields))
	}
	if dp.Fields[0].Key != "name" {
		t.Fatalf("field 0 key = %q, want name", dp.Fields[0].Key)
	}
}

func TestParseImportWithDefault(t *testing.T) {
	blk := parseProgram(t, `import "config.sere" or {}`)
	imp, ok := blk.Result.(*ast.ImportExpr)
	if !ok {
		t.Fatalf("result = %T, want *ast.ImportExpr", blk.Result)
	}
	if imp.Path != "config.sere" {
		t.Fatalf("path = %q, want config.sere", imp.Path)
	}
	if imp.Default == nil {
		t.Fatalf("expected a default fallback expression")
	}
}

func TestParseTemplateInterpolation(t *testing.T) {
	blk := parseProgram(t, `"hello ${name}!"`)
	tmpl, ok := blk.Result.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("result = %T, want *ast.TemplateLiteral", blk.Result)
	}
	var sawExpr bool
	for _, part := range tmpl.Parts {
		if part.Expr != nil {
			sawExpr = true
		}
	}
	if !sawExpr {
		t.Fatalf("expected at least one interpolated part")
	}
}

func TestParseErrorsAccumulate(t *testing.T) {
	ts := lexer.NewTokenStream(lexer.New("let = \nlet ="))
	p := New(ts, "<test>")
	p.ParseProgram()
	if p.Errors().Empty() {
		t.Fatalf("expected syntax errors for malformed input")
	}
}
