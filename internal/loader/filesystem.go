package loader

import (
	"errors"
	"io/fs"
	"os"
)

// Filesystem reads ordinary `.sere` files from disk, grounded in the
// teacher's modules.Loader.loadDir (minus the directory/package-group
// walking that module's own loader needed).
type Filesystem struct{}

func (Filesystem) SchemeMatches(key string) bool {
	return !hasScheme(key)
}

func (Filesystem) Load(key string) (string, error) {
	data, err := os.ReadFile(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (Filesystem) IsSafeForHermetic() bool { return false }
