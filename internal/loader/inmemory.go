package loader

import (
	"strings"

	"github.com/gobwas/glob"
)

// InMemory serves a pre-populated key/text tree (for embedding hosts
// and tests), scoped to only the keys matching Pattern via
// github.com/gobwas/glob — the same package holomush-holomush uses
// for subscription-style matching, repurposed here to fence one
// in-memory loader to a subtree like "config/**".
type InMemory struct {
	Files   map[string]string
	Pattern glob.Glob // nil matches everything under the "mem:" scheme
}

const memScheme = "mem:"

func NewInMemory(files map[string]string, pattern string) (*InMemory, error) {
	var g glob.Glob
	if pattern != "" {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		g = compiled
	}
	return &InMemory{Files: files, Pattern: g}, nil
}

func (m *InMemory) SchemeMatches(key string) bool {
	if !strings.HasPrefix(key, memScheme) {
		return false
	}
	if m.Pattern == nil {
		return true
	}
	return m.Pattern.Match(strings.TrimPrefix(key, memScheme))
}

func (m *InMemory) Load(key string) (string, error) {
	src, ok := m.Files[strings.TrimPrefix(key, memScheme)]
	if !ok {
		return "", ErrNotFound
	}
	return src, nil
}

func (*InMemory) IsSafeForHermetic() bool { return true }
