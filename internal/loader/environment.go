package loader

import (
	"os"
	"strings"
)

// Environment serves `env:NAME` import keys from the process
// environment (spec.md §6.2's built-in loader list). It is never safe
// under hermetic evaluation: the whole point of hermetic mode is that
// a program's result depends only on its own source text.
type Environment struct{}

const envScheme = "env:"

func (Environment) SchemeMatches(key string) bool {
	return strings.HasPrefix(key, envScheme)
}

func (Environment) Load(key string) (string, error) {
	name := strings.TrimPrefix(key, envScheme)
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (Environment) IsSafeForHermetic() bool { return false }
