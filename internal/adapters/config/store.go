// Package config reads and writes the YAML testing config that maps code labels to
// executables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.ConfigStore  = (*Store)(nil)
	_ ports.ConfigLoader = (*Loader)(nil)
)

// Loader implements ports.ConfigLoader for YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover walks up from dir until it finds the default config file.
func (l *Loader) Discover(dir string) (string, error) {
	currentDir := dir
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", dir)
}

// Open reads the config at path.
func (l *Loader) Open(path string) (ports.ConfigStore, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	if !s.existed && l.Logger != nil {
		l.Logger.Info(fmt.Sprintf("testing config %s does not exist yet, starting empty", path))
	}
	return s, nil
}

// Store is an in-memory view of one testing config document.
type Store struct {
	path    string
	entries map[string]domain.CodeConfig
	other   map[string]any
	existed bool
}

// Open reads the document at path. A missing file is an empty document.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]domain.CodeConfig)}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, zerr.With(domain.WrapKind(err, domain.ErrConfigReadFailed), "path", path)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(domain.WrapKind(err, domain.ErrConfigParseFailed), "path", path)
	}

	for label, entry := range doc.MockCode {
		if err := domain.ValidateLabel(label); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		cfg, err := entry.toDomain()
		if err != nil {
			return nil, zerr.With(zerr.With(err, "label", label), "path", path)
		}
		s.entries[label] = cfg
	}
	s.other = doc.Other
	s.existed = true
	return s, nil
}

// Path returns the location of the document.
func (s *Store) Path() string {
	return s.path
}

// Get returns the entry for label.
func (s *Store) Get(label string) (domain.CodeConfig, bool) {
	cfg, ok := s.entries[label]
	return cfg, ok
}

// Set records an entry.
func (s *Store) Set(label string, cfg domain.CodeConfig) {
	s.entries[label] = cfg
}

// Unset drops an entry.
func (s *Store) Unset(label string) {
	delete(s.entries, label)
}

// Labels returns the configured labels in sorted order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, len(s.entries))
	for label := range s.entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Persist writes the document atomically: a temporary file in the same directory is
// renamed over the target.
func (s *Store) Persist() error {
	doc := document{Other: s.other}
	if len(s.entries) > 0 {
		doc.MockCode = make(map[string]codeEntry, len(s.entries))
		for label, cfg := range s.entries {
			doc.MockCode[label] = fromDomain(cfg)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrConfigWriteFailed), "path", s.path)
	}
	if err := enc.Close(); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrConfigWriteFailed), "path", s.path)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrConfigWriteFailed), "path", s.path)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
