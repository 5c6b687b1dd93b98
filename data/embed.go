// Package data provides the sample levels shipped with the binary.
package data

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// levelFS embeds the sample level documents at build time.
//
//go:embed levels/*.json
var levelFS embed.FS

// FS returns the embedded filesystem containing the sample levels.
func FS() embed.FS {
	return levelFS
}

// Samples lists the names of the embedded sample levels, sorted.
func Samples() ([]string, error) {
	entries, err := fs.ReadDir(levelFS, "levels")
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Sample returns the document of the named sample level.
func Sample(name string) ([]byte, error) {
	b, err := levelFS.ReadFile(path.Join("levels", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("unknown sample %q", name)
	}
	return b, nil
}
