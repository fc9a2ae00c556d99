package ports

import "go.trai.ch/mockcode/internal/core/domain"

// ConfigStore is the session's view of the testing config document.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_store.go -destination=mocks/mock_config_store.go -package=mocks
type ConfigStore interface {
	// Get returns the entry for label.
	Get(label string) (domain.CodeConfig, bool)
	// Set records an entry in memory.
	Set(label string, cfg domain.CodeConfig)
	// Unset drops an entry in memory.
	Unset(label string)
	// Labels returns the configured labels in sorted order.
	Labels() []string
	// Persist writes the document back to Path.
	Persist() error
	// Path is the location of the document. Relative executables resolve against its directory.
	Path() string
}

// ConfigLoader locates and opens testing config documents.
type ConfigLoader interface {
	// Discover walks up from dir looking for the default config file name.
	Discover(dir string) (string, error)
	// Open reads the document at path. A missing file yields an empty store
	// that is created on the first Persist.
	Open(path string) (ConfigStore, error)
}
