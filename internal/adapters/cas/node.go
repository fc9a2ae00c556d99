package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mockcode/internal/core/ports"
)

// NodeID is the unique identifier for the fixture repository opener Graft node.
const NodeID graft.ID = "adapter.fixture_repository"

func init() {
	graft.Register(graft.Node[ports.RepositoryOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RepositoryOpener, error) {
			return func(dataDir string) ports.FixtureRepository {
				return NewRepository(dataDir)
			}, nil
		},
	})
}
