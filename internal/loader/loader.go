package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

// maxParallelParses bounds concurrent file parsing.
const maxParallelParses = 8

// Project holds everything loaded from a models directory.
type Project struct {
	Models  []*core.SemanticModel
	Metrics []*core.Metric
	// Files are the YAML files that were parsed, sorted.
	Files []string
}

// Load discovers and parses all semantic-model YAML files under dir.
// Files are parsed concurrently; the returned collections are ordered
// by file path, then declaration order, so output is deterministic.
func Load(dir string) (*Project, error) {
	files, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}

	type parsed struct {
		models  []*core.SemanticModel
		metrics []*core.Metric
	}

	results := make([]parsed, len(files))
	var g errgroup.Group
	g.SetLimit(maxParallelParses)

	for i, path := range files {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			models, metrics, err := parseFile(path, content)
			if err != nil {
				return err
			}
			results[i] = parsed{models: models, metrics: metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := &Project{Files: files}
	for _, r := range results {
		p.Models = append(p.Models, r.models...)
		p.Metrics = append(p.Metrics, r.metrics...)
	}
	return p, nil
}

// LoadContent parses in-memory YAML documents keyed by a display path.
// Used by tests and by callers that already have file contents.
func LoadContent(docs map[string]string) (*Project, error) {
	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	p := &Project{Files: paths}
	for _, path := range paths {
		models, metrics, err := parseFile(path, []byte(docs[path]))
		if err != nil {
			return nil, err
		}
		p.Models = append(p.Models, models...)
		p.Metrics = append(p.Metrics, metrics...)
	}
	return p, nil
}

// DiscoverFiles walks dir and returns all YAML files, sorted. Hidden
// directories (dot-prefixed) are skipped.
func DiscoverFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models path %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
