// Package codesearch scans a local source checkout for references to storage
// asset names and connection strings.
package codesearch

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/datagovern/governance-backend/internal/domain/asset"
)

// skipDirs are directory names never scanned for references.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// Searcher finds substring references by walking a source tree. It satisfies
// the code-search contract used by orphan detection; an indexed search
// service can replace it behind the same interface.
type Searcher struct {
	root    string
	maxHits int
}

// NewSearcher creates a searcher over the given source root. maxHits caps
// results per pattern; zero means a default of 100.
func NewSearcher(root string, maxHits int) *Searcher {
	if maxHits <= 0 {
		maxHits = 100
	}
	return &Searcher{root: root, maxHits: maxHits}
}

// FindReferences returns lines containing the pattern.
func (s *Searcher) FindReferences(ctx context.Context, pattern string) ([]asset.Reference, error) {
	var refs []asset.Reference

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(refs) >= s.maxHits {
			return filepath.SkipAll
		}

		hits, err := scanFile(path, pattern, s.maxHits-len(refs))
		if err != nil {
			// Unreadable files are skipped, not fatal.
			return nil
		}
		refs = append(refs, hits...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func scanFile(path, pattern string, limit int) ([]asset.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []asset.Reference
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.Contains(text, pattern) {
			hits = append(hits, asset.Reference{
				File:    path,
				Line:    line,
				Snippet: strings.TrimSpace(text),
			})
			if len(hits) >= limit {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
