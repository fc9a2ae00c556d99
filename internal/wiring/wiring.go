// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mockcode/internal/adapters/cas"
	_ "go.trai.ch/mockcode/internal/adapters/config"
	_ "go.trai.ch/mockcode/internal/adapters/fs"
	_ "go.trai.ch/mockcode/internal/adapters/logger"
	_ "go.trai.ch/mockcode/internal/adapters/shell"
	_ "go.trai.ch/mockcode/internal/adapters/telemetry"
	// Register the app nodes.
	_ "go.trai.ch/mockcode/internal/app"
)
