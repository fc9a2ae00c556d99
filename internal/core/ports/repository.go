package ports

import "go.trai.ch/mockcode/internal/core/domain"

// FixtureRepository stores recorded executions in a data directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type FixtureRepository interface {
	// Has reports whether a committed entry exists.
	Has(label string, id domain.Identity) (bool, error)

	// Load reads and verifies an entry. Output files are not copied;
	// their Source points into the entry.
	Load(label string, id domain.Identity) (*domain.FixtureEntry, error)

	// Store writes an entry whose files are read from their Source paths.
	Store(label string, id domain.Identity, entry *domain.FixtureEntry, mode domain.StoreMode) error

	// Restore copies the entry's output files into dir, overwriting existing files,
	// and verifies their checksums on the way.
	Restore(entry *domain.FixtureEntry, dir string) error

	// Remove deletes an entry.
	Remove(label string, id domain.Identity) error

	// List returns the committed entries for label, or for every label when label is empty.
	List(label string) ([]domain.FixtureRef, error)

	// Root returns the data directory.
	Root() string
}

// RepositoryOpener returns the repository for a data directory.
type RepositoryOpener func(dataDir string) FixtureRepository
