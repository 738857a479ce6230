package evaluator

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubLoader struct {
	files map[string]string
}

func (s stubLoader) Load(path string) (string, error) {
	src, ok := s.files[path]
	if !ok {
		return "", errNotFoundStub{path}
	}
	return src, nil
}

type errNotFoundStub struct{ path string }

func (e errNotFoundStub) Error() string { return "not found: " + e.path }

func newTestEvaluator(files map[string]string) *Evaluator {
	return New("<test>", stubLoader{files: files}, zerolog.Nop())
}

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ev := newTestEvaluator(nil)
	val, err := ev.EvalProgram(src)
	if err != nil {
		t.Fatalf("EvalProgram(%q) error: %v", src, err)
	}
	return val
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	v := evalSrc(t, "1 + 2 * 3")
	i, ok := v.(Int)
	if !ok || i != 7 {
		t.Fatalf("got %#v, want Int(7)", v)
	}
}

func TestEvalLetBindingsAndShadowing(t *testing.T) {
	v := evalSrc(t, "let x = 1;\nlet x = x + 1;\nx")
	if i, ok := v.(Int); !ok || i != 2 {
		t.Fatalf("got %#v, want Int(2)", v)
	}
}

func TestEvalFunctionAlternatives(t *testing.T) {
	v := evalSrc(t, "let double 0 = 0;\nlet double n = n + n;\ndouble 5")
	i, ok := v.(Int)
	if !ok || i != 10 {
		t.Fatalf("got %#v, want Int(10)", v)
	}
}

// Recursion-by-capture is explicitly forbidden (spec.md §4.2.1/§8): a
// pattern-defined function's body can never name the function being
// defined, only whatever that name meant beforehand.
func TestEvalFunctionCannotRecurseByCapture(t *testing.T) {
	ev := newTestEvaluator(nil)
	_, err := ev.EvalProgram("let f x = f x;\nf 1")
	if err == nil {
		t.Fatalf("expected an UnboundIdentifier error for the inner f")
	}
}

// A same-named `let f` binding separated from an earlier one by an
// unrelated binding starts a fresh, independent capture (only
// directly-adjacent `let f` bindings merge into one Pattern's
// alternatives): the new body cannot see itself, but it CAN see the
// previous `f`, since that earlier binding predates it.
func TestEvalFunctionRedefinitionSeesThePriorBinding(t *testing.T) {
	v := evalSrc(t, "let f x = x + 1;\nlet _ = 0;\nlet f x = f x * 10;\nf 2")
	i, ok := v.(Int)
	if !ok || i != 30 {
		t.Fatalf("got %#v, want Int(30) (new f calling the old f, not itself)", v)
	}
}

func TestEvalListDestructuring(t *testing.T) {
	v := evalSrc(t, "let [first, ..] = [1, 2, 3];\nfirst")
	if i, ok := v.(Int); !ok || i != 1 {
		t.Fatalf("got %#v, want Int(1)", v)
	}
}

func TestEvalDictShorthandPattern(t *testing.T) {
	v := evalSrc(t, `let person = {name: "Ada", age: 36};
let {name, ..} = person;
name`)
	text, ok := v.(Text)
	if !ok || text.String() != "Ada" {
		t.Fatalf("got %#v, want Text(Ada)", v)
	}
}

func TestEvalListComprehensionWithGuard(t *testing.T) {
	v := evalSrc(t, "[x * x for x in [1, 2, 3, 4] if x % 2 == 0]")
	l, ok := v.(List)
	if !ok {
		t.Fatalf("got %T, want List", v)
	}
	want := []int64{4, 16}
	if l.Len() != len(want) {
		t.Fatalf("got %d items, want %d", l.Len(), len(want))
	}
	for i, w := range want {
		item, _ := l.Get(i)
		if int64(item.(Int)) != w {
			t.Fatalf("item %d = %v, want %d", i, item, w)
		}
	}
}

func TestEvalDictComprehension(t *testing.T) {
	v := evalSrc(t, `{k: v * 2 for [k, v] in [["a", 1], ["b", 2]]}`)
	d, ok := v.(Dict)
	if !ok {
		t.Fatalf("got %T, want Dict", v)
	}
	got, ok := d.Get("a")
	if !ok || int64(got.(Int)) != 2 {
		t.Fatalf("d[a] = %v, want 2", got)
	}
}

func TestEvalTemplateInterpolation(t *testing.T) {
	v := evalSrc(t, `let name = "world";
"hello ${name}!"`)
	text, ok := v.(Text)
	if !ok || text.String() != "hello world!" {
		t.Fatalf("got %#v, want Text(hello world!)", v)
	}
}

func TestEvalTypeCast(t *testing.T) {
	v := evalSrc(t, `1 as ?int`)
	if _, ok := v.(Int); !ok {
		t.Fatalf("got %T, want Int", v)
	}
}

func TestEvalTypeTest(t *testing.T) {
	v := evalSrc(t, `1 # int`)
	if b, ok := v.(Bool); !ok || !bool(b) {
		t.Fatalf("got %#v, want Bool(true)", v)
	}
}

func TestEvalImportCacheHitSharesValue(t *testing.T) {
	ev := newTestEvaluator(map[string]string{
		"shared.sere": "let counter = 1;\ncounter",
	})
	v, err := ev.EvalProgram(`[import "shared.sere", import "shared.sere"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := v.(List)
	a, _ := l.Get(0)
	b, _ := l.Get(1)
	if !Equal(a, b) {
		t.Fatalf("imported values differ: %v vs %v", a, b)
	}
}

func TestEvalImportCycleIsDetected(t *testing.T) {
	ev := newTestEvaluator(map[string]string{
		"a.sere": `import "b.sere"`,
		"b.sere": `import "a.sere"`,
	})
	ev.File = "a.sere"
	_, err := ev.EvalProgram(`import "b.sere"`)
	if err == nil {
		t.Fatalf("expected an import cycle error")
	}
}

// pathLoader is a minimal stand-in for *loader.Resolver: it resolves
// relative import keys against its own base and exposes Resolve/
// WithBase so the evaluator's per-file rebasing in doImport kicks in
// exactly as it does against the real loader.
type pathLoader struct {
	base  string
	files map[string]string
}

func (p pathLoader) resolve(key string) string {
	if path.IsAbs(key) {
		return key
	}
	return path.Join(path.Dir(p.base), key)
}

func (p pathLoader) Load(key string) (string, error) {
	resolved := p.resolve(key)
	src, ok := p.files[resolved]
	if !ok {
		return "", errNotFoundStub{resolved}
	}
	return src, nil
}

func (p pathLoader) Resolve(key string) string { return p.resolve(key) }

func (p pathLoader) WithBase(base string) interface {
	Load(key string) (string, error)
} {
	return pathLoader{base: base, files: p.files}
}

// A relative import made from inside an already-imported file must
// resolve against *that file's own* directory, not the top-level
// program's (spec.md §4.5's "current base path" is the file currently
// being evaluated).
func TestEvalImportResolvesRelativeToItsOwnFile(t *testing.T) {
	files := map[string]string{
		"/a/sub/b.sere": `import "./c.sere"`,
		"/a/sub/c.sere": "42",
	}
	root := pathLoader{base: "/a/main.sere", files: files}
	ev := New("/a/main.sere", root, zerolog.Nop())
	v, err := ev.EvalProgram(`import "./sub/b.sere"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, ok := v.(Int); !ok || i != 42 {
		t.Fatalf("got %#v, want Int(42) loaded via /a/sub/c.sere", v)
	}
}

func TestEvalImportMissingFallsBackToDefault(t *testing.T) {
	v := evalSrc(t, `import "missing.sere" or {fallback: true}`)
	d, ok := v.(Dict)
	if !ok {
		t.Fatalf("got %T, want Dict", v)
	}
	got, ok := d.Get("fallback")
	if !ok || !Truthy(got) {
		t.Fatalf("expected fallback dict to be used")
	}
}

func TestEvalProgramContextCancellation(t *testing.T) {
	ev := newTestEvaluator(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ev.EvalProgramContext(ctx, "let x = 1;\nlet y = 2;\nx + y")
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
}

func TestEvalProgramContextDeadlineDuringComprehension(t *testing.T) {
	ev := newTestEvaluator(nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, err := ev.EvalProgramContext(ctx, "[x for x in range ([0, 1000])]")
	if err == nil {
		t.Fatalf("expected evaluation to observe the expired deadline")
	}
}

func TestEvalUnboundIdentifierError(t *testing.T) {
	ev := newTestEvaluator(nil)
	_, err := ev.EvalProgram("missing_name")
	if err == nil {
		t.Fatalf("expected an unbound identifier error")
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	ev := newTestEvaluator(nil)
	_, err := ev.EvalProgram("1 / 0")
	if err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
}

// Int arithmetic stays Int, with overflow as an error rather than silent
// wraparound (spec.md: "Arithmetic on Int×Int stays Int (with overflow →
// error)").
func TestEvalIntegerOverflowIsAnError(t *testing.T) {
	cases := []string{
		"9223372036854775807 + 1",
		"-9223372036854775807 - 2",
		"4611686018427387904 * 4",
	}
	for _, src := range cases {
		ev := newTestEvaluator(nil)
		if _, err := ev.EvalProgram(src); err == nil {
			t.Fatalf("%q: expected an overflow error", src)
		}
	}
}

func TestEvalIntegerArithmeticWithinRangeStaysInt(t *testing.T) {
	v := evalSrc(t, "9223372036854775806 + 1")
	if i, ok := v.(Int); !ok || i != 9223372036854775807 {
		t.Fatalf("got %#v, want Int(9223372036854775807)", v)
	}
}

func TestEvalPatternMatchFailure(t *testing.T) {
	ev := newTestEvaluator(nil)
	_, err := ev.EvalProgram("let f 0 = 1;\nf 5")
	if err == nil {
		t.Fatalf("expected no alternative to match")
	}
}
