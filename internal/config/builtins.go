package config

// Builtin describes one entry of the fixed built-in pattern library
// from spec.md §6.3. Arity is the number of arguments the pattern
// takes before producing a value (higher-order entries with Arity > 1
// return a closure after each argument, per spec.md's "higher-order
// forms returning closures for multi-arg threading").
type Builtin struct {
	Name  string
	Arity int
	Doc   string
}

// Builtins is the single source of truth for the built-in pattern
// table: the evaluator registers exactly these names in every fresh
// top-level Environment, and `sere builtins` renders this same table
// as documentation.
var Builtins = []Builtin{
	{"fmt", 1, "render any value as human-readable text"},
	{"len", 1, "number of elements in a list, dict, or text"},
	{"range", 1, "list of integers [start, end) from a [start, end] pair"},
	{"zip", 2, "pairwise-combine two lists into a list of 2-element lists"},
	{"enumerate", 1, "list of [index, element] pairs"},
	{"sum", 1, "sum of a list of numbers"},
	{"max", 1, "largest element of a non-empty list"},
	{"min", 1, "smallest element of a non-empty list"},
	{"all", 1, "true if every element of a list of booleans is true"},
	{"any", 1, "true if any element of a list of booleans is true"},
	{"sort", 1, "a sorted copy of a list"},
	{"keys", 1, "list of a dict's keys, in insertion order"},
	{"values", 1, "list of a dict's values, in insertion order"},
	{"split", 2, "split text on a separator"},
	{"join", 2, "join a list of text with a separator"},
	{"replace", 3, "replace all occurrences of a substring"},
	{"trim", 1, "strip leading and trailing whitespace"},
	{"trim_start", 1, "strip leading whitespace"},
	{"trim_end", 1, "strip trailing whitespace"},
	{"lowercase", 1, "lowercase a text value"},
	{"uppercase", 1, "uppercase a text value"},
	{"starts_with", 2, "true if text starts with a prefix"},
	{"ends_with", 2, "true if text ends with a suffix"},
	{"parse_int", 1, "parse text as an integer, or null on failure"},
	{"parse_float", 1, "parse text as a float, or null on failure"},
}

// LookupBuiltin returns the table entry for name, if any.
func LookupBuiltin(name string) (Builtin, bool) {
	for _, b := range Builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}
