package ports

import "go.trai.ch/mockcode/internal/core/domain"

// OutputCollector lists the files a finished process left in its working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=collector.go -destination=mocks/mock_collector.go -package=mocks
type OutputCollector interface {
	// CollectOutputs returns every regular file under root the policy includes,
	// sorted by path, with Source set to its location on disk.
	CollectOutputs(root string, policy domain.FilterPolicy) ([]domain.FixtureFile, error)
}
