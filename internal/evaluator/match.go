package evaluator

import "github.com/serelang/sere/internal/ast"

// Match attempts to destructure val against pat, binding any
// identifiers it contains into env. It returns false (with env
// possibly partially populated, which callers must discard on
// failure by using a fresh child frame) if val's shape or any
// embedded literal/type doesn't match.
func Match(pat ast.Pattern, val Value, env *Environment) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		if p.Type != nil && !Conforms(val, p.Type, env) {
			return false
		}
		env.Set(p.Name, val)
		return true

	case *ast.LiteralPattern:
		lit, err := evalLiteral(p.Value)
		if err != nil {
			return false
		}
		return Equal(lit, val)

	case *ast.ListPattern:
		return matchList(p, val, env)

	case *ast.DictPattern:
		return matchDict(p, val, env)

	default:
		return false
	}
}

func matchList(p *ast.ListPattern, val Value, env *Environment) bool {
	list, ok := val.(List)
	if !ok {
		return false
	}
	items := list.Items()
	n := len(p.Elems)

	if p.RestPos == -1 {
		if len(items) != n {
			return false
		}
		for i, sub := range p.Elems {
			if !Match(sub, items[i], env) {
				return false
			}
		}
		return true
	}

	if len(items) < n {
		return false
	}
	if p.RestPos == 0 {
		// leading spread: the skipped prefix is unbound; Elems match
		// the LAST n elements.
		tail := items[len(items)-n:]
		for i, sub := range p.Elems {
			if !Match(sub, tail[i], env) {
				return false
			}
		}
		return true
	}
	// trailing spread (p.RestPos == n): Elems match the FIRST n elements.
	head := items[:n]
	for i, sub := range p.Elems {
		if !Match(sub, head[i], env) {
			return false
		}
	}
	return true
}

func matchDict(p *ast.DictPattern, val Value, env *Environment) bool {
	dict, ok := val.(Dict)
	if !ok {
		return false
	}
	if !p.Open && dict.Len() != len(p.Fields) {
		return false
	}
	for _, f := range p.Fields {
		v, ok := dict.Get(f.Key)
		if !ok {
			return false
		}
		if !Match(f.Pattern, v, env) {
			return false
		}
	}
	return true
}
