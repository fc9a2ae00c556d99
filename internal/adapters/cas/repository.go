// Package cas implements the on-disk fixture repository, addressed by code label and
// invocation identity.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FixtureRepository = (*Repository)(nil)

const (
	manifestVersion = 1
	tmpPrefix       = domain.StagingDirPrefix
	trashSuffix     = ".old"
)

// stream records one captured output stream.
type stream struct {
	Size     int64  `json:"size"`
	Checksum string `json:"xxh64"`
}

// manifest is the on-disk form of a fixture entry.
type manifest struct {
	Version    int                  `json:"version"`
	Label      string               `json:"label"`
	Identity   domain.Identity      `json:"identity"`
	ExitStatus int                  `json:"exit_status"`
	CreatedAt  time.Time            `json:"created_at"`
	Command    []string             `json:"command,omitempty"`
	Stdout     stream               `json:"stdout"`
	Stderr     stream               `json:"stderr"`
	Files      []domain.FixtureFile `json:"files"`
}

// Repository implements ports.FixtureRepository with one directory per entry.
type Repository struct {
	root string
	now  func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a repository rooted at dataDir. The directory is created on first Store.
func NewRepository(dataDir string, opts ...Option) *Repository {
	r := &Repository{root: dataDir, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the data directory.
func (r *Repository) Root() string {
	return r.root
}

// Has reports whether a committed entry exists.
func (r *Repository) Has(label string, id domain.Identity) (bool, error) {
	_, err := os.Stat(filepath.Join(domain.FixturePath(r.root, label, id), domain.ManifestFileName))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(zerr.Wrap(err, "failed to check fixture"), "path", domain.FixturePath(r.root, label, id))
}

// Load reads an entry and verifies every stored checksum.
func (r *Repository) Load(label string, id domain.Identity) (*domain.FixtureEntry, error) {
	dir := domain.FixturePath(r.root, label, id)

	//nolint:gosec // Path is built from the data directory and a validated fixture name
	data, err := os.ReadFile(filepath.Join(dir, domain.ManifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrFixtureNotFound, "no fixture for "+label+"/"+id.String()), "path", dir)
		}
		return nil, corrupt(err, dir)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, corrupt(err, dir)
	}
	if m.Label != label || m.Identity != id {
		return nil, corrupt(fmt.Errorf("manifest is for %s/%s", m.Label, m.Identity), dir)
	}

	stdout, err := readStream(filepath.Join(dir, domain.StdoutFileName), m.Stdout)
	if err != nil {
		return nil, corrupt(err, dir)
	}
	stderr, err := readStream(filepath.Join(dir, domain.StderrFileName), m.Stderr)
	if err != nil {
		return nil, corrupt(err, dir)
	}

	files := make([]domain.FixtureFile, len(m.Files))
	for i, f := range m.Files {
		src, err := storedPath(dir, f.Path)
		if err != nil {
			return nil, corrupt(err, dir)
		}
		sum, size, err := checksumFile(src)
		if err != nil {
			return nil, corrupt(err, dir)
		}
		if sum != f.Checksum || size != f.Size {
			return nil, corrupt(fmt.Errorf("checksum mismatch for %s", f.Path), dir)
		}
		f.Source = src
		files[i] = f
	}

	return &domain.FixtureEntry{
		Label:      m.Label,
		Identity:   m.Identity,
		ExitStatus: m.ExitStatus,
		Stdout:     stdout,
		Stderr:     stderr,
		Files:      files,
		CreatedAt:  m.CreatedAt,
		Command:    m.Command,
		Dir:        dir,
	}, nil
}

// Store writes entry into a temporary sibling directory and renames it into place.
// With StoreOverwrite an existing entry is moved aside first and removed after the
// new one is committed. A reader never sees a half-written entry, but may briefly see
// no entry at all between the two renames.
func (r *Repository) Store(label string, id domain.Identity, entry *domain.FixtureEntry, mode domain.StoreMode) error {
	if err := domain.ValidateLabel(label); err != nil {
		return err
	}

	name := domain.FixtureDirName(label, id)
	dest := filepath.Join(r.root, name)

	exists, err := r.Has(label, id)
	if err != nil {
		return err
	}
	if exists && mode == domain.StoreFailIfExists {
		return alreadyExists(label, id, dest)
	}

	if err := os.MkdirAll(r.root, domain.DirPerm); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureCreateFailed), "path", r.root)
	}

	tmp, err := os.MkdirTemp(r.root, tmpPrefix+name+"-")
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureCreateFailed), "path", r.root)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(tmp)
		}
	}()

	m, err := r.stage(tmp, label, id, entry)
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureCreateFailed), "path", dest)
	}

	if err := commit(tmp, dest); err != nil {
		if errors.Is(err, fs.ErrExist) && mode == domain.StoreFailIfExists {
			return alreadyExists(label, id, dest)
		}
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureCommitFailed), "path", dest)
	}
	committed = true

	entry.Label = label
	entry.Identity = id
	entry.CreatedAt = m.CreatedAt
	entry.Files = m.Files
	entry.Dir = dest
	for i := range entry.Files {
		entry.Files[i].Source = filepath.Join(dest, domain.FilesDirName, filepath.FromSlash(entry.Files[i].Path))
	}
	return nil
}

// stage writes streams, files and finally the manifest into dir.
func (r *Repository) stage(dir, label string, id domain.Identity, entry *domain.FixtureEntry) (*manifest, error) {
	m := &manifest{
		Version:    manifestVersion,
		Label:      label,
		Identity:   id,
		ExitStatus: entry.ExitStatus,
		CreatedAt:  r.now().UTC().Truncate(time.Second),
		Command:    entry.Command,
		Files:      make([]domain.FixtureFile, 0, len(entry.Files)),
	}

	var err error
	if m.Stdout, err = writeStream(filepath.Join(dir, domain.StdoutFileName), entry.Stdout); err != nil {
		return nil, err
	}
	if m.Stderr, err = writeStream(filepath.Join(dir, domain.StderrFileName), entry.Stderr); err != nil {
		return nil, err
	}

	for _, f := range entry.Files {
		dst, err := storedPath(dir, f.Path)
		if err != nil {
			return nil, err
		}
		sum, size, err := copyFile(dst, f.Source, f.Mode.Perm())
		if err != nil {
			return nil, zerr.With(err, "file", f.Path)
		}
		m.Files = append(m.Files, domain.FixtureFile{
			Path:     f.Path,
			Size:     size,
			Mode:     f.Mode.Perm(),
			Checksum: sum,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	//nolint:gosec // Manifest is not secret
	if err := os.WriteFile(filepath.Join(dir, domain.ManifestFileName), append(data, '\n'), domain.FilePerm); err != nil {
		return nil, err
	}
	return m, nil
}

// Restore copies the entry's files into dir, verifying checksums as it goes.
func (r *Repository) Restore(entry *domain.FixtureEntry, dir string) error {
	for _, f := range entry.Files {
		dst := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
			return zerr.With(domain.WrapKind(err, domain.ErrReplayFailed), "file", f.Path)
		}

		tmp := dst + tmpSuffix()
		sum, _, err := copyFile(tmp, f.Source, f.Mode.Perm())
		if err != nil {
			_ = os.Remove(tmp)
			return zerr.With(domain.WrapKind(err, domain.ErrReplayFailed), "file", f.Path)
		}
		if sum != f.Checksum {
			_ = os.Remove(tmp)
			return corrupt(fmt.Errorf("checksum mismatch for %s", f.Path), entry.Dir)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Remove(tmp)
			return zerr.With(domain.WrapKind(err, domain.ErrReplayFailed), "file", f.Path)
		}
	}
	return nil
}

// Remove deletes an entry. The directory is renamed away first so a partially
// removed entry is never visible under its own name.
func (r *Repository) Remove(label string, id domain.Identity) error {
	dir := domain.FixturePath(r.root, label, id)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrFixtureNotFound, "no fixture for "+label+"/"+id.String()), "path", dir)
		}
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureRemoveFailed), "path", dir)
	}

	trash := filepath.Join(r.root, tmpPrefix+filepath.Base(dir)+tmpSuffix()+trashSuffix)
	if err := os.Rename(dir, trash); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureRemoveFailed), "path", dir)
	}
	if err := os.RemoveAll(trash); err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrFixtureRemoveFailed), "path", trash)
	}
	return nil
}

// List returns committed entries sorted by directory name. Temporary and trash
// directories are skipped.
func (r *Repository) List(label string) ([]domain.FixtureRef, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list fixtures"), "path", r.root)
	}

	var refs []domain.FixtureRef
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		l, id, ok := domain.ParseFixtureDirName(e.Name())
		if !ok || (label != "" && l != label) {
			continue
		}
		refs = append(refs, domain.FixtureRef{
			Label:    l,
			Identity: id,
			Dir:      filepath.Join(r.root, e.Name()),
		})
	}
	return refs, nil
}

// commit renames tmp to dest, moving an existing dest aside first.
func commit(tmp, dest string) error {
	_, err := os.Stat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Rename(tmp, dest); err != nil {
			if _, statErr := os.Stat(dest); statErr == nil {
				return fs.ErrExist
			}
			return err
		}
		return nil
	case err != nil:
		return err
	}

	trash := tmp + trashSuffix
	if err := os.Rename(dest, trash); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Rename(trash, dest)
		return err
	}
	return os.RemoveAll(trash)
}

func storedPath(dir, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the fixture", rel)
	}
	return filepath.Join(dir, domain.FilesDirName, clean), nil
}

func writeStream(path string, data []byte) (stream, error) {
	//nolint:gosec // Path is inside the staging directory
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return stream{}, err
	}
	return stream{Size: int64(len(data)), Checksum: checksum(data)}, nil
}

func readStream(path string, want stream) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is inside the fixture directory
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != want.Size || checksum(data) != want.Checksum {
		return nil, fmt.Errorf("checksum mismatch for %s", filepath.Base(path))
	}
	return data, nil
}

// copyFile copies src to dst with perm and returns the xxhash64 checksum and size of the content.
func copyFile(dst, src string, perm fs.FileMode) (string, int64, error) {
	in, err := os.Open(src) //nolint:gosec // Source is a collected output or a fixture file
	if err != nil {
		return "", 0, err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return "", 0, err
	}
	if perm == 0 {
		perm = domain.FilePerm
	}
	//nolint:gosec // Destination is inside a staging or working directory
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", 0, err
	}

	h := xxhash.New()
	n, err := io.Copy(io.MultiWriter(out, h), in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", 0, err
	}
	// OpenFile honours the umask; the recorded mode must survive it.
	if err := os.Chmod(dst, perm); err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%016x", h.Sum64()), n, nil
}

func checksumFile(path string) (string, int64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is inside the fixture directory
	if err != nil {
		return "", 0, err
	}
	defer f.Close() //nolint:errcheck // Read-only file

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%016x", h.Sum64()), n, nil
}

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func tmpSuffix() string {
	return fmt.Sprintf(".%d-%d.tmp", os.Getpid(), time.Now().UnixNano())
}

func corrupt(err error, dir string) error {
	return zerr.With(domain.WrapKind(err, domain.ErrFixtureCorrupt), "path", dir)
}

func alreadyExists(label string, id domain.Identity, dest string) error {
	return zerr.With(zerr.Wrap(domain.ErrFixtureAlreadyExists, "fixture "+label+"/"+id.Short()+" already exists"), "path", dest)
}
