package build

import (
	"context"
	"fmt"

	"github.com/alantheprice/idekit/pkg/utils"
)

// Backend selects which IDE project description config.status generates.
type Backend string

const (
	BackendCppEclipse   Backend = "CppEclipse"
	BackendVisualStudio Backend = "VisualStudio"
	BackendClangd       Backend = "Clangd"
)

// BackendFor maps an IDE kind name to its backend.
func BackendFor(kind string) (Backend, bool) {
	switch kind {
	case "eclipse":
		return BackendCppEclipse, true
	case "visualstudio":
		return BackendVisualStudio, true
	case "vscode":
		return BackendClangd, true
	}
	return "", false
}

// BackendGenerator regenerates IDE project files from the build configuration.
type BackendGenerator struct {
	engine Engine
	logger *utils.Logger
}

func NewBackendGenerator(engine Engine, logger *utils.Logger) *BackendGenerator {
	return &BackendGenerator{engine: engine, logger: logger}
}

// Generate runs the configuration entry point in objDir with backend.
func (g *BackendGenerator) Generate(ctx context.Context, objDir string, backend Backend) error {
	g.logger.LogProcessStep(fmt.Sprintf("Generating the %s backend", backend))
	code, err := g.engine.RegenerateBackend(ctx, objDir, backend)
	if err != nil || code != 0 {
		return utils.NewBuildStepError("ide.backend", string(backend), code, err).
			WithHint(fmt.Sprintf("Check %s/config.status and retry with --backend=%s.", objDir, backend))
	}
	return nil
}
