package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputCollector = (*Collector)(nil)

// Collector lists output files left in a working directory.
type Collector struct {
	walker *Walker
}

// NewCollector creates a new Collector.
func NewCollector(walker *Walker) *Collector {
	return &Collector{walker: walker}
}

// CollectOutputs returns every regular file under root the policy includes.
func (c *Collector) CollectOutputs(root string, policy domain.FilterPolicy) ([]domain.FixtureFile, error) {
	var files []domain.FixtureFile
	for rel, err := range c.walker.WalkFiles(root) {
		if err != nil {
			return nil, zerr.With(domain.WrapKind(err, domain.ErrCaptureFailed), "path", rel)
		}
		if !policy.IsIncluded(rel) {
			continue
		}

		src := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(src)
		if err != nil {
			return nil, zerr.With(domain.WrapKind(err, domain.ErrCaptureFailed), "path", rel)
		}
		files = append(files, domain.FixtureFile{
			Path:   rel,
			Size:   info.Size(),
			Mode:   info.Mode().Perm(),
			Source: src,
		})
	}

	slices.SortFunc(files, func(a, b domain.FixtureFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}
