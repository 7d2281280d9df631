package build

import (
	"context"
	"fmt"

	"github.com/alantheprice/idekit/pkg/utils"
)

// VSCodeTargets must run in this order: install manifests first, then the
// full export, then pre-compile. Later targets rely on earlier side effects.
var VSCodeTargets = []string{"pre-export", "export", "pre-compile"}

// Stager runs build targets one after another.
type Stager struct {
	engine Engine
	logger *utils.Logger
}

// NewStager creates a stager over engine.
func NewStager(engine Engine, logger *utils.Logger) *Stager {
	return &Stager{engine: engine, logger: logger}
}

// Stage runs targets in dir sequentially and stops at the first failure,
// returning a build-step error carrying that target's exit code.
func (s *Stager) Stage(ctx context.Context, dir string, targets ...string) error {
	for _, target := range targets {
		s.logger.LogProcessStep(fmt.Sprintf("Building target %q in %s", target, dir))
		code, err := s.engine.RunTarget(ctx, dir, target)
		if err != nil || code != 0 {
			return utils.NewBuildStepError("ide.stage", target, code, err).
				WithHint(fmt.Sprintf("Fix the build and retry the %q target in %s.", target, dir))
		}
	}
	return nil
}

// Configure runs the tree's configure step.
func (s *Stager) Configure(ctx context.Context) error {
	s.logger.LogProcessStep("Configuring the tree")
	code, err := s.engine.Configure(ctx)
	if err != nil || code != 0 {
		return utils.NewBuildStepError("ide.configure", "configure", code, err)
	}
	return nil
}

// DefaultBuild runs the full default build.
func (s *Stager) DefaultBuild(ctx context.Context) error {
	s.logger.LogProcessStep("Running a full build")
	code, err := s.engine.DispatchDefaultBuild(ctx)
	if err != nil || code != 0 {
		return utils.NewBuildStepError("ide.build", "build", code, err)
	}
	return nil
}
