package evaluator

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/serelang/sere/internal/ast"
	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/diagnostics"
	"github.com/serelang/sere/internal/lexer"
	"github.com/serelang/sere/internal/parser"
)

// Loader fetches the source text of an import target. Concrete
// implementations live in internal/loader; the evaluator only needs
// this narrow seam (spec.md §6.2's pluggable loader capability).
type Loader interface {
	Load(path string) (string, error)
}

// rebaser is the optional extra capability of a Loader whose relative
// imports resolve against a base file path (internal/loader.Resolver
// satisfies this structurally; the evaluator never imports the loader
// package, so this is matched by duck typing, not a named type). Its
// presence lets doImport re-root a nested import's own relative
// resolution at the file it just loaded, so that file's `./x` imports
// resolve against its own directory rather than the top-level
// program's (spec.md §4.5's "current base path" is the file currently
// being evaluated).
type rebaser interface {
	Resolve(key string) string
	WithBase(base string) interface{ Load(path string) (string, error) }
}

// Evaluator runs one top-level program, threading a shared import
// cache and cycle-detection set through every nested import so that
// two sibling imports of the same path are loaded once (spec.md §6.1).
type Evaluator struct {
	File       string
	Loader     Loader
	Cache      map[string]Value
	Processing map[string]bool
	Log        zerolog.Logger
	Session    uuid.UUID
	ctx        context.Context
}

// New starts a fresh top-level evaluation session: Session namespaces
// this evaluation's log events (so two concurrent top-level
// evaluations' debug traces, per spec.md §5, don't interleave into one
// indistinguishable stream) and is not itself part of the import
// memoization key, which is scoped to this single session by
// construction (a fresh Cache/Processing pair per New call).
func New(file string, loader Loader, log zerolog.Logger) *Evaluator {
	session := uuid.New()
	return &Evaluator{
		File:       file,
		Loader:     loader,
		Cache:      map[string]Value{},
		Processing: map[string]bool{},
		Log:        log.With().Str("session", session.String()).Logger(),
		Session:    session,
	}
}

// EvalProgram lexes, parses, and evaluates src as a standalone
// top-level block in a fresh global environment, with no cancellation
// deadline.
func (ev *Evaluator) EvalProgram(src string) (Value, error) {
	return ev.EvalProgramContext(context.Background(), src)
}

// EvalProgramContext is EvalProgram with a cooperative deadline: ctx is
// checked between top-level statements and between comprehension
// iterations (spec.md §5), and its expiry surfaces as a Cancelled
// diagnostic rather than a silent hang.
func (ev *Evaluator) EvalProgramContext(ctx context.Context, src string) (Value, error) {
	ev.ctx = ctx
	ts := lexer.NewTokenStream(lexer.New(src))
	p := parser.New(ts, ev.File)
	block := p.ParseProgram()
	if !p.Errors().Empty() {
		return nil, p.Errors().First()
	}
	env := NewGlobalEnvironment()
	return ev.evalBlock(block, env)
}

// checkCancelled reports ev.ctx's cancellation as a Cancelled
// diagnostic, or nil if ev.ctx is unset or still live.
func (ev *Evaluator) checkCancelled(n ast.Node) error {
	if ev.ctx == nil {
		return nil
	}
	select {
	case <-ev.ctx.Done():
		return ev.errAt(diagnostics.Cancelled, n, "evaluation cancelled: %v", ev.ctx.Err())
	default:
		return nil
	}
}

func (ev *Evaluator) errAt(kind diagnostics.Kind, n ast.Node, format string, args ...interface{}) error {
	return diagnostics.New(kind, diagnostics.PhaseEval, ev.File, n.Tok(), format, args...)
}

// Eval is the big-step dispatcher over every expression form.
func (ev *Evaluator) Eval(node ast.Expr, env *Environment) (Value, error) {
	switch n := node.(type) {
	case *ast.Block:
		return ev.evalBlock(n, env)
	case *ast.Identifier:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, ev.errAt(diagnostics.UnboundIdentifier, n, "unbound identifier %q", n.Name)
		}
		return v, nil
	case *ast.IntLiteral:
		return Int(n.Value), nil
	case *ast.FloatLiteral:
		return Float(n.Value), nil
	case *ast.TextLiteral:
		return NewText(n.Value), nil
	case *ast.BoolLiteral:
		return Bool(n.Value), nil
	case *ast.NullLiteral:
		return TheNull, nil
	case *ast.TemplateLiteral:
		return ev.evalTemplate(n, env)
	case *ast.ListLiteral:
		return ev.evalListLiteral(n, env)
	case *ast.DictLiteral:
		return ev.evalDictLiteral(n, env)
	case *ast.ListComprehension:
		return ev.evalListComprehension(n, env)
	case *ast.DictComprehension:
		return ev.evalDictComprehension(n, env)
	case *ast.IfExpr:
		return ev.evalIf(n, env)
	case *ast.ImportExpr:
		return ev.evalImport(n, env)
	case *ast.UnaryExpr:
		return ev.evalUnary(n, env)
	case *ast.BinaryExpr:
		return ev.evalBinary(n, env)
	case *ast.ApplyExpr:
		return ev.evalApply(n, env)
	case *ast.MemberExpr:
		return ev.evalMember(n, env)
	case *ast.IndexExpr:
		return ev.evalIndex(n, env)
	case *ast.CastExpr:
		return ev.evalCast(n, env)
	case *ast.TypeTestExpr:
		return ev.evalTypeTest(n, env)
	case *ast.TypeLiteral:
		return TypeValue{Expr: n.Type}, nil
	default:
		return nil, ev.errAt(diagnostics.NonRepresentable, node, "cannot evaluate %T", node)
	}
}

func evalLiteral(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return Int(n.Value), nil
	case *ast.FloatLiteral:
		return Float(n.Value), nil
	case *ast.TextLiteral:
		return NewText(n.Value), nil
	case *ast.BoolLiteral:
		return Bool(n.Value), nil
	case *ast.NullLiteral:
		return TheNull, nil
	default:
		return nil, diagnostics.New(diagnostics.NonRepresentable, diagnostics.PhaseEval, "", e.Tok(), "not a literal pattern value: %T", e)
	}
}

// evalBlock threads one fresh child Environment per binding rather
// than mutating a single shared frame, so that a Pattern value's
// captured environment is a true snapshot of everything defined
// *before* it (spec.md §4.2.1): within `let f p = body`, the name `f`
// can never resolve to the Pattern being defined, only to whatever
// `f` (if anything) meant in an earlier binding. This is the
// mechanism that forbids recursion by capture, not a post-hoc check.
func (ev *Evaluator) evalBlock(blk *ast.Block, env *Environment) (Value, error) {
	scope := NewEnclosedEnvironment(env)

	var funcName string
	var funcClosure *Environment
	var funcAlts []FuncAlt

	flushFunc := func() {
		if funcName == "" {
			return
		}
		next := NewEnclosedEnvironment(scope)
		next.Set(funcName, Function{Name: funcName, Alternatives: funcAlts})
		scope = next
		funcName, funcClosure, funcAlts = "", nil, nil
	}

	for _, b := range blk.Bindings {
		if err := ev.checkCancelled(blk); err != nil {
			return nil, err
		}
		switch bd := b.(type) {
		case *ast.LetFunctionBinding:
			name := bd.Name.Name
			if name != funcName {
				flushFunc()
				funcName = name
				funcClosure = scope
			}
			funcAlts = append(funcAlts, FuncAlt{Param: bd.Param, Body: bd.Body, Closure: funcClosure})

		case *ast.LetBinding:
			flushFunc()
			val, err := ev.Eval(bd.Value, scope)
			if err != nil {
				return nil, err
			}
			next := NewEnclosedEnvironment(scope)
			if !Match(bd.Pattern, val, next) {
				return nil, ev.errAt(diagnostics.PatternMatchError, bd, "value %s does not match the let pattern", val.Inspect())
			}
			scope = next

		case *ast.TypeAliasBinding:
			flushFunc()
			next := NewEnclosedEnvironment(scope)
			next.SetType(bd.Name.Name, TypeValue{Expr: bd.Type})
			scope = next
		}
	}
	flushFunc()
	return ev.Eval(blk.Result, scope)
}

func (ev *Evaluator) evalTemplate(n *ast.TemplateLiteral, env *Environment) (Value, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := ev.Eval(part.Expr, env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(Render(v))
	}
	return NewText(sb.String()), nil
}

func (ev *Evaluator) evalListLiteral(n *ast.ListLiteral, env *Environment) (Value, error) {
	var items []Value
	for _, it := range n.Items {
		if it.Guard != nil {
			g, err := ev.Eval(it.Guard, env)
			if err != nil {
				return nil, err
			}
			if !Truthy(g) {
				continue
			}
		}
		v, err := ev.Eval(it.Value, env)
		if err != nil {
			return nil, err
		}
		if it.Spread {
			lst, ok := v.(List)
			if !ok {
				return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot spread a %s into a list", v.Kind())
			}
			items = append(items, lst.Items()...)
			continue
		}
		items = append(items, v)
	}
	return NewList(items), nil
}

func (ev *Evaluator) evalDictLiteral(n *ast.DictLiteral, env *Environment) (Value, error) {
	result := EmptyDict()
	for _, it := range n.Items {
		if it.Guard != nil {
			g, err := ev.Eval(it.Guard, env)
			if err != nil {
				return nil, err
			}
			if !Truthy(g) {
				continue
			}
		}
		v, err := ev.Eval(it.Value, env)
		if err != nil {
			return nil, err
		}
		if it.Spread {
			d, ok := v.(Dict)
			if !ok {
				return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot spread a %s into a dict", v.Kind())
			}
			result = result.Merge(d)
			continue
		}
		keyVal, err := ev.Eval(it.Key, env)
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(Text)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "dict key must be text, got %s", keyVal.Kind())
		}
		result = result.Set(key.String(), v)
	}
	return result, nil
}

func (ev *Evaluator) evalListComprehension(n *ast.ListComprehension, env *Environment) (Value, error) {
	var results []Value
	var walk func(idx int, scope *Environment) error
	walk = func(idx int, scope *Environment) error {
		if idx == len(n.Clauses) {
			if n.Guard != nil {
				g, err := ev.Eval(n.Guard, scope)
				if err != nil {
					return err
				}
				if !Truthy(g) {
					return nil
				}
			}
			v, err := ev.Eval(n.Body, scope)
			if err != nil {
				return err
			}
			results = append(results, v)
			return nil
		}
		clause := n.Clauses[idx]
		src, err := ev.Eval(clause.Source, scope)
		if err != nil {
			return err
		}
		list, ok := src.(List)
		if !ok {
			return ev.errAt(diagnostics.TypeMismatch, n, "for-clause source must be a list, got %s", src.Kind())
		}
		for _, item := range list.Items() {
			if err := ev.checkCancelled(n); err != nil {
				return err
			}
			inner := NewEnclosedEnvironment(scope)
			if !Match(clause.Pattern, item, inner) {
				continue
			}
			if err := walk(idx+1, inner); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, env); err != nil {
		return nil, err
	}
	return NewList(results), nil
}

func (ev *Evaluator) evalDictComprehension(n *ast.DictComprehension, env *Environment) (Value, error) {
	result := EmptyDict()
	var walk func(idx int, scope *Environment) error
	walk = func(idx int, scope *Environment) error {
		if idx == len(n.Clauses) {
			if n.Guard != nil {
				g, err := ev.Eval(n.Guard, scope)
				if err != nil {
					return err
				}
				if !Truthy(g) {
					return nil
				}
			}
			keyVal, err := ev.Eval(n.KeyExpr, scope)
			if err != nil {
				return err
			}
			key, ok := keyVal.(Text)
			if !ok {
				return ev.errAt(diagnostics.TypeMismatch, n, "dict key must be text, got %s", keyVal.Kind())
			}
			val, err := ev.Eval(n.ValueExpr, scope)
			if err != nil {
				return err
			}
			result = result.Set(key.String(), val)
			return nil
		}
		clause := n.Clauses[idx]
		src, err := ev.Eval(clause.Source, scope)
		if err != nil {
			return err
		}
		list, ok := src.(List)
		if !ok {
			return ev.errAt(diagnostics.TypeMismatch, n, "for-clause source must be a list, got %s", src.Kind())
		}
		for _, item := range list.Items() {
			if err := ev.checkCancelled(n); err != nil {
				return err
			}
			inner := NewEnclosedEnvironment(scope)
			if !Match(clause.Pattern, item, inner) {
				continue
			}
			if err := walk(idx+1, inner); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, env); err != nil {
		return nil, err
	}
	return result, nil
}

func (ev *Evaluator) evalIf(n *ast.IfExpr, env *Environment) (Value, error) {
	cond, err := ev.Eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return ev.Eval(n.Then, env)
	}
	return ev.Eval(n.Else, env)
}

// evalImport resolves `import <path> [as text] [or <default>]`: the
// raw-text form bypasses the cache entirely (it's for reading the
// source itself, not evaluating it), while the evaluated form is
// memoized and cycle-checked against every import currently on the
// stack so `import "a"` from inside `a` itself raises an ImportError
// instead of recursing forever.
func (ev *Evaluator) evalImport(n *ast.ImportExpr, env *Environment) (Value, error) {
	v, err := ev.doImport(n)
	if err != nil {
		if n.Default != nil {
			return ev.Eval(n.Default, env)
		}
		return nil, err
	}
	return v, nil
}

func (ev *Evaluator) doImport(n *ast.ImportExpr) (Value, error) {
	if n.AsText {
		src, err := ev.Loader.Load(n.Path)
		if err != nil {
			return nil, diagnostics.Wrap(ev.File, n.Tok(), err, "cannot load %q", n.Path)
		}
		return NewText(src), nil
	}

	// key is the fully-resolved path the loaded file lives at, and
	// subLoader is re-rooted there, so that *its own* relative imports
	// resolve against its directory rather than ev.File's (spec.md
	// §4.5's "current base path" is whichever file is being evaluated).
	// Loaders with no such notion of a base (e.g. a flat in-memory map
	// in a test) fall back to the raw import literal and the shared
	// Loader, exactly as before.
	key := n.Path
	subLoader := ev.Loader
	if rb, ok := ev.Loader.(rebaser); ok {
		key = rb.Resolve(n.Path)
		subLoader = rb.WithBase(key)
	}

	if ev.Processing[key] {
		return nil, ev.errAt(diagnostics.ImportError, n, "import cycle detected at %q", key)
	}
	if v, ok := ev.Cache[key]; ok {
		ev.Log.Debug().Str("path", key).Msg("import cache hit")
		return v, nil
	}
	ev.Log.Debug().Str("path", key).Msg("import cache miss")
	src, err := ev.Loader.Load(n.Path)
	if err != nil {
		return nil, diagnostics.Wrap(ev.File, n.Tok(), err, "cannot load %q", n.Path)
	}
	ev.Processing[key] = true
	defer delete(ev.Processing, key)

	sub := &Evaluator{File: key, Loader: subLoader, Cache: ev.Cache, Processing: ev.Processing, Log: ev.Log, Session: ev.Session}
	v, err := sub.EvalProgramContext(ev.ctx, src)
	if err != nil {
		return nil, diagnostics.Wrap(ev.File, n.Tok(), err, "error evaluating import %q", n.Path)
	}
	ev.Cache[key] = v
	return v, nil
}

func (ev *Evaluator) evalUnary(n *ast.UnaryExpr, env *Environment) (Value, error) {
	v, err := ev.Eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		return Bool(!Truthy(v)), nil
	case "-":
		switch vv := v.(type) {
		case Int:
			return -vv, nil
		case Float:
			return -vv, nil
		}
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "unary '-' needs a number, got %s", v.Kind())
	}
	return nil, ev.errAt(diagnostics.NonRepresentable, n, "unknown unary operator %q", n.Op)
}

func (ev *Evaluator) evalBinary(n *ast.BinaryExpr, env *Environment) (Value, error) {
	switch n.Op {
	case "and":
		l, err := ev.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(l) {
			return l, nil
		}
		return ev.Eval(n.Right, env)
	case "or":
		l, err := ev.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthy(l) {
			return l, nil
		}
		return ev.Eval(n.Right, env)
	case "?":
		l, err := ev.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if _, isNull := l.(Null); isNull {
			return ev.Eval(n.Right, env)
		}
		return l, nil
	}

	l, err := ev.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ev.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return ev.evalCompare(n, l, r)
	case "in":
		return ev.evalIn(n, l, r)
	case "+", "-", "*", "/", "%":
		return ev.evalArith(n, l, r)
	}
	return nil, ev.errAt(diagnostics.NonRepresentable, n, "unknown binary operator %q", n.Op)
}

func (ev *Evaluator) evalCompare(n *ast.BinaryExpr, l, r Value) (Value, error) {
	ln, lok := numeric(l)
	rn, rok := numeric(r)
	var cmp int
	switch {
	case lok && rok:
		switch {
		case ln < rn:
			cmp = -1
		case ln > rn:
			cmp = 1
		}
	default:
		lt, ltok := l.(Text)
		rt, rtok := r.(Text)
		if !ltok || !rtok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot compare %s and %s", l.Kind(), r.Kind())
		}
		cmp = strings.Compare(lt.String(), rt.String())
	}
	switch n.Op {
	case "<":
		return Bool(cmp < 0), nil
	case "<=":
		return Bool(cmp <= 0), nil
	case ">":
		return Bool(cmp > 0), nil
	default:
		return Bool(cmp >= 0), nil
	}
}

func (ev *Evaluator) evalIn(n *ast.BinaryExpr, l, r Value) (Value, error) {
	switch rv := r.(type) {
	case List:
		for _, item := range rv.Items() {
			if Equal(l, item) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case Dict:
		key, ok := l.(Text)
		if !ok {
			return Bool(false), nil
		}
		return Bool(rv.Has(key.String())), nil
	case Text:
		key, ok := l.(Text)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "'in' text needs a text left side, got %s", l.Kind())
		}
		return Bool(strings.Contains(rv.String(), key.String())), nil
	default:
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "'in' needs a list, dict, or text, got %s", r.Kind())
	}
}

func (ev *Evaluator) evalArith(n *ast.BinaryExpr, l, r Value) (Value, error) {
	if lt, ok := l.(Text); ok && n.Op == "+" {
		rt, ok := r.(Text)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot add text and %s", r.Kind())
		}
		return NewText(lt.String() + rt.String()), nil
	}
	if lst, ok := l.(List); ok && n.Op == "+" {
		rst, ok := r.(List)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot add list and %s", r.Kind())
		}
		return lst.Concat(rst), nil
	}

	ln, lok := numeric(l)
	rn, rok := numeric(r)
	if !lok || !rok {
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "arithmetic needs numbers, got %s and %s", l.Kind(), r.Kind())
	}
	_, lIsFloat := l.(Float)
	_, rIsFloat := r.(Float)
	useFloat := lIsFloat || rIsFloat

	switch n.Op {
	case "+":
		if useFloat {
			return Float(ln + rn), nil
		}
		li, ri := l.(Int), r.(Int)
		if (ri > 0 && li > math.MaxInt64-ri) || (ri < 0 && li < math.MinInt64-ri) {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "integer overflow in %d + %d", li, ri)
		}
		return li + ri, nil
	case "-":
		if useFloat {
			return Float(ln - rn), nil
		}
		li, ri := l.(Int), r.(Int)
		if (ri < 0 && li > math.MaxInt64+ri) || (ri > 0 && li < math.MinInt64+ri) {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "integer overflow in %d - %d", li, ri)
		}
		return li - ri, nil
	case "*":
		if useFloat {
			return Float(ln * rn), nil
		}
		li, ri := l.(Int), r.(Int)
		prod := li * ri
		if li != 0 && prod/li != ri {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "integer overflow in %d * %d", li, ri)
		}
		return prod, nil
	case "/":
		if rn == 0 {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "division by zero")
		}
		if useFloat {
			return Float(ln / rn), nil
		}
		li, ri := l.(Int), r.(Int)
		if li == math.MinInt64 && ri == -1 {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "integer overflow in %d / %d", li, ri)
		}
		return li / ri, nil
	case "%":
		if rn == 0 {
			return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "modulo by zero")
		}
		if useFloat {
			return Float(math.Mod(ln, rn)), nil
		}
		return l.(Int) % r.(Int), nil
	}
	return nil, ev.errAt(diagnostics.NonRepresentable, n, "unknown arithmetic operator %q", n.Op)
}

func (ev *Evaluator) evalApply(n *ast.ApplyExpr, env *Environment) (Value, error) {
	fnVal, err := ev.Eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	arg, err := ev.Eval(n.Arg, env)
	if err != nil {
		return nil, err
	}
	return ev.applyFunction(fnVal, arg, n)
}

func (ev *Evaluator) applyFunction(fnVal, arg Value, n ast.Node) (Value, error) {
	fn, ok := fnVal.(Function)
	if !ok {
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot apply a %s as a function", fnVal.Kind())
	}
	if fn.Builtin != nil {
		applied := append(append([]Value{}, fn.Applied...), arg)
		arity := 1
		if b, ok := config.LookupBuiltin(fn.Name); ok {
			arity = b.Arity
		}
		if len(applied) < arity {
			return Function{Name: fn.Name, Builtin: fn.Builtin, Applied: applied}, nil
		}
		return fn.Builtin(applied)
	}
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	for i, alt := range fn.Alternatives {
		scope := NewEnclosedEnvironment(alt.Closure)
		if Match(alt.Param, arg, scope) {
			ev.Log.Debug().Str("function", name).Int("alternative", i).Msg("matched")
			return ev.Eval(alt.Body, scope)
		}
	}
	return nil, ev.errAt(diagnostics.PatternMatchError, n, "no alternative of %q matches %s", name, arg.Inspect())
}

func (ev *Evaluator) evalMember(n *ast.MemberExpr, env *Environment) (Value, error) {
	target, err := ev.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	dict, ok := target.(Dict)
	if !ok {
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "'.%s' needs a dict, got %s", n.Name, target.Kind())
	}
	v, ok := dict.Get(n.Name)
	if !ok {
		return nil, ev.errAt(diagnostics.IndexError, n, "dict has no key %q", n.Name)
	}
	return v, nil
}

func (ev *Evaluator) evalIndex(n *ast.IndexExpr, env *Environment) (Value, error) {
	target, err := ev.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	idx, err := ev.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case List:
		i, ok := idx.(Int)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "list index must be an int, got %s", idx.Kind())
		}
		v, ok := t.Get(int(i))
		if !ok {
			return nil, ev.errAt(diagnostics.IndexError, n, "list index %d out of range [0, %d)", i, t.Len())
		}
		return v, nil
	case Text:
		i, ok := idx.(Int)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "text index must be an int, got %s", idx.Kind())
		}
		v, ok := t.At(int(i))
		if !ok {
			return nil, ev.errAt(diagnostics.IndexError, n, "text index %d out of range [0, %d)", i, t.Len())
		}
		return v, nil
	case Dict:
		key, ok := idx.(Text)
		if !ok {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "dict key must be text, got %s", idx.Kind())
		}
		v, ok := t.Get(key.String())
		if !ok {
			return nil, ev.errAt(diagnostics.IndexError, n, "dict has no key %q", key.String())
		}
		return v, nil
	default:
		return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot index a %s", target.Kind())
	}
}

func (ev *Evaluator) evalCast(n *ast.CastExpr, env *Environment) (Value, error) {
	val, err := ev.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	prim, ok := n.Type.(*ast.PrimitiveType)
	if !ok {
		if !Conforms(val, n.Type, env) {
			return nil, ev.errAt(diagnostics.TypeMismatch, n, "%s does not conform to %s", val.Inspect(), TypeExprString(n.Type))
		}
		return val, nil
	}
	switch prim.Name {
	case "any":
		return val, nil
	case "int":
		switch v := val.(type) {
		case Int:
			return v, nil
		case Float:
			return Int(math.Trunc(float64(v))), nil
		case Text:
			i, perr := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
			if perr != nil {
				return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "%q cannot be cast to int", v.String())
			}
			return Int(i), nil
		}
	case "float":
		switch v := val.(type) {
		case Float:
			return v, nil
		case Int:
			return Float(v), nil
		case Text:
			f, perr := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
			if perr != nil {
				return nil, ev.errAt(diagnostics.OverflowOrDomain, n, "%q cannot be cast to float", v.String())
			}
			return Float(f), nil
		}
	case "number":
		switch val.(type) {
		case Int, Float:
			return val, nil
		}
	case "text":
		return NewText(Render(val)), nil
	case "bool":
		if b, ok := val.(Bool); ok {
			return b, nil
		}
	case "null":
		if _, ok := val.(Null); ok {
			return val, nil
		}
	}
	return nil, ev.errAt(diagnostics.TypeMismatch, n, "cannot cast %s to %s", val.Kind(), prim.Name)
}

func (ev *Evaluator) evalTypeTest(n *ast.TypeTestExpr, env *Environment) (Value, error) {
	val, err := ev.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	return Bool(Conforms(val, n.Type, env)), nil
}
