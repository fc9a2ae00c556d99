package fs

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InvocationHasher = (*Hasher)(nil)

// hashVersion is folded into every identity. Bump it when the serialization changes.
const hashVersion = "mockcode/identity/v1"

// Hasher computes invocation identities over staged input directories.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeIdentity folds the label and each included file (relative path, length,
// content) into one SHA-256 digest. Files are visited in byte-wise path order, and
// no file metadata other than the path takes part.
func (h *Hasher) ComputeIdentity(label, root string, policy domain.FilterPolicy) (domain.Identity, error) {
	paths, err := h.includedFiles(root, policy)
	if err != nil {
		return "", err
	}

	digest := sha256.New()
	writeField(digest, []byte(hashVersion))
	writeField(digest, []byte(label))

	for _, rel := range paths {
		if err := hashFile(digest, root, rel); err != nil {
			return "", err
		}
	}

	return domain.IdentityFromSum(digest.Sum(nil)), nil
}

func (h *Hasher) includedFiles(root string, policy domain.FilterPolicy) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, zerr.With(domain.WrapKind(err, domain.ErrWorkDirNotFound), "path", root)
	}

	var paths []string
	for rel, err := range h.walker.WalkFiles(root) {
		if err != nil {
			return nil, zerr.With(domain.WrapKind(err, domain.ErrInputUnreadable), "path", rel)
		}
		if policy.IsIncluded(rel) {
			paths = append(paths, rel)
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func hashFile(digest hash.Hash, root, rel string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))
	f, err := os.Open(path) //nolint:gosec // Path is produced by walking root
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrInputUnreadable), "path", rel)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	info, err := f.Stat()
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrInputUnreadable), "path", rel)
	}

	writeField(digest, []byte(rel))
	_ = binary.Write(digest, binary.LittleEndian, uint64(info.Size())) //nolint:gosec // Size is non-negative
	n, err := io.Copy(digest, f)
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrInputUnreadable), "path", rel)
	}
	if n != info.Size() {
		return zerr.With(domain.WrapKind(io.ErrUnexpectedEOF, domain.ErrInputUnreadable), "path", rel)
	}
	return nil
}

// writeField writes b followed by a NUL separator.
func writeField(w io.Writer, b []byte) {
	_, _ = w.Write(b)
	_, _ = w.Write([]byte{0})
}
