package toolchain

import (
	"context"

	"github.com/alantheprice/idekit/pkg/common"
)

// CommandArtifacts fetches toolchains with `mach artifact toolchain`.
type CommandArtifacts struct {
	Runner common.Runner
	Mach   string
}

// FetchToolchain runs in the current working directory, which is where the
// artifact gets unpacked.
func (a *CommandArtifacts) FetchToolchain(ctx context.Context, jobTag string) (int, error) {
	return a.Runner.Run(ctx, "", []string{a.Mach, "artifact", "toolchain", "--from-build", jobTag})
}
