// Package build drives the external build engine: staging the targets an
// editor's tooling needs and regenerating editor project backends.
package build

import (
	"context"
	"path/filepath"

	"github.com/alantheprice/idekit/pkg/common"
)

// Engine is the external build collaborator. Every method returns the
// engine's exit code; the error is reserved for failing to run it at all.
type Engine interface {
	RunTarget(ctx context.Context, dir, target string) (int, error)
	RegenerateBackend(ctx context.Context, objDir string, backend Backend) (int, error)
	DispatchDefaultBuild(ctx context.Context) (int, error)
	Configure(ctx context.Context) (int, error)
}

// CommandEngine implements Engine by running mach, make and config.status.
type CommandEngine struct {
	Runner common.Runner
	SrcDir string
	Mach   string
	Make   string
	Python string
}

func (e *CommandEngine) RunTarget(ctx context.Context, dir, target string) (int, error) {
	return e.Runner.Run(ctx, dir, []string{e.Make, "-C", dir, target})
}

func (e *CommandEngine) RegenerateBackend(ctx context.Context, objDir string, backend Backend) (int, error) {
	configStatus := filepath.Join(objDir, "config.status")
	return e.Runner.Run(ctx, objDir, []string{e.Python, configStatus, "--backend=" + string(backend)})
}

func (e *CommandEngine) DispatchDefaultBuild(ctx context.Context) (int, error) {
	return e.Runner.Run(ctx, e.SrcDir, []string{e.Mach, "build"})
}

func (e *CommandEngine) Configure(ctx context.Context) (int, error) {
	return e.Runner.Run(ctx, e.SrcDir, []string{e.Mach, "configure"})
}
