package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mockcode/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mockcode/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.HasherNodeID,
			fs.CollectorNodeID,
			cas.NodeID,
			shell.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.InvocationHasher](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[ports.OutputCollector](ctx)
	if err != nil {
		return nil, err
	}

	openRepo, err := graft.Dep[ports.RepositoryOpener](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, hasher, collector, openRepo, runner, tracer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(a, log, loader, tracer), nil
}
