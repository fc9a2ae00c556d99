// Package main is the entry point for mockcode.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mockcode/cmd/mockcode/commands"
	"go.trai.ch/mockcode/internal/adapters/logger"
	"go.trai.ch/mockcode/internal/app"
	_ "go.trai.ch/mockcode/internal/wiring"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer, opts ...func(*commands.CLI)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = io.WriteString(stderr, "ERROR: "+err.Error()+"\n")
		return 1
	}

	// 2. Interface - CLI
	cli := commands.New(components)
	cli.SetArgs(args)
	for _, opt := range opts {
		opt(cli)
	}

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		_, _ = io.WriteString(stderr, "ERROR: "+logger.Headline(err)+"\n")
		components.Logger.Error(err)
		return 1
	}
	return cli.ExitCode()
}
