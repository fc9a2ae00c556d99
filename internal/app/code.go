package app

import (
	"context"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/mockcode/internal/engine/mockexec"
)

// AttrSession is the span attribute carrying the session id.
const AttrSession = "mockcode.session"

// Code is a configured external code. Each Run is one invocation in a staged directory.
type Code struct {
	label      string
	executable string
	options    domain.Options
	engine     *mockexec.Engine
	tracer     ports.Tracer
	sessionID  string
}

// Label returns the code label.
func (c *Code) Label() string {
	return c.label
}

// Executable returns the executable resolved when the code was declared, or "" when
// the code can only replay fixtures.
func (c *Code) Executable() string {
	return c.executable
}

// Options returns the merged invocation options.
func (c *Code) Options() domain.Options {
	return c.options
}

// Repository returns the fixture repository of the code's data directory.
func (c *Code) Repository() ports.FixtureRepository {
	return c.engine.Repository()
}

// Run replays or executes the code in dir.
func (c *Code) Run(ctx context.Context, dir string, cmd domain.CommandLine) (*domain.ExecutionResult, error) {
	ctx, span := c.tracer.Start(ctx, "mockcode.invocation", ports.WithAttribute(AttrSession, c.sessionID))
	defer span.End()

	res, err := c.engine.Run(ctx, domain.Invocation{
		Label:   c.label,
		Dir:     dir,
		Command: cmd,
		Options: c.options,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return res, nil
}
