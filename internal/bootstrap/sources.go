package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/tooldeck/internal/application/usecase"
)

// ReadSources loads files from disk into named document sources.
func ReadSources(paths []string) ([]usecase.DocumentSource, error) {
	sources := make([]usecase.DocumentSource, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sources = append(sources, usecase.DocumentSource{Name: filepath.Base(path), Data: data})
	}
	return sources, nil
}
