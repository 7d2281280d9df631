// Package orchestration drives the ide command: it stages the build outputs an
// IDE needs, generates the IDE backend, prepares editor settings and launches
// the IDE.
package orchestration

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/alantheprice/idekit/pkg/build"
	"github.com/alantheprice/idekit/pkg/common"
	"github.com/alantheprice/idekit/pkg/editor"
	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/settings"
	"github.com/alantheprice/idekit/pkg/toolchain"
	"github.com/alantheprice/idekit/pkg/ui"
	"github.com/alantheprice/idekit/pkg/utils"
)

// EditorLocator finds the editor to launch.
type EditorLocator interface {
	Locate(d platform.Descriptor) (*editor.Candidate, error)
}

// TreeBuilder runs the build steps that precede backend generation.
type TreeBuilder interface {
	Configure(ctx context.Context) error
	Stage(ctx context.Context, dir string, targets ...string) error
	DefaultBuild(ctx context.Context) error
}

// BackendGenerator writes the IDE project description into the objdir.
type BackendGenerator interface {
	Generate(ctx context.Context, objDir string, backend build.Backend) error
}

// ToolchainEnsurer installs the language server toolchain when missing.
type ToolchainEnsurer interface {
	Ensure(ctx context.Context, stateDir string, d platform.Descriptor) (*toolchain.Handle, error)
}

// SettingsMerger writes the owned keys into the editor settings file.
type SettingsMerger interface {
	Merge(path string, patch settings.Patch) (*settings.Result, error)
}

// Paths are the filesystem locations a run works with.
type Paths struct {
	SrcDir       string
	ObjDir       string
	StateDir     string
	SolutionName string
}

// Dependencies wires an Orchestrator to its collaborators.
type Dependencies struct {
	Locator   EditorLocator
	Builder   TreeBuilder
	Backends  BackendGenerator
	Toolchain ToolchainEnsurer
	Settings  SettingsMerger
	Launcher  common.Runner
	Platform  platform.Descriptor
	Paths     Paths
	Logger    *utils.Logger
	// Journal records stage events; nil disables it.
	Journal *utils.RunLogger

	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// CPUs defaults to runtime.NumCPU.
	CPUs int
}

// Orchestrator runs the ide command for one source tree.
type Orchestrator struct {
	deps Dependencies
}

// NewOrchestrator creates an orchestrator over deps.
func NewOrchestrator(deps Dependencies) *Orchestrator {
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	if deps.CPUs <= 0 {
		deps.CPUs = runtime.NumCPU()
	}
	if deps.Paths.SolutionName == "" {
		deps.Paths.SolutionName = "mozilla.sln"
	}
	return &Orchestrator{deps: deps}
}

// stage is one named step of a run. Stages execute in order and the first
// error ends the run.
type stage struct {
	name string
	run  func(ctx context.Context, st *runState) error
}

// runState carries values between the stages of a single run.
type runState struct {
	editor    *editor.Candidate
	toolchain *toolchain.Handle
	checks    []string
	settings  string
}

// Run executes req and returns the process exit code. Failures are logged
// with their stage and remediation hint.
func (o *Orchestrator) Run(ctx context.Context, req Request) int {
	err := o.Execute(ctx, req)
	if err != nil {
		o.deps.Logger.LogError(err)
		ui.Out().Print(ui.Styled(ui.Styles().Error, utils.FormatError(err)) + "\n")
	}
	return utils.ExitCode(err)
}

// Execute runs every stage for req and returns the first failure.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (err error) {
	logger := o.deps.Logger
	journal := o.deps.Journal
	logger.Logf("ide %s: srcdir=%s objdir=%s passthrough=%s (cid %s)",
		req.Kind(), o.deps.Paths.SrcDir, o.deps.Paths.ObjDir,
		utils.ShellJoin(req.PassthroughArgs()), logger.CorrelationID())
	journal.LogEvent("run_start", map[string]any{
		"kind":   string(req.Kind()),
		"srcdir": o.deps.Paths.SrcDir,
		"objdir": o.deps.Paths.ObjDir,
		"args":   req.PassthroughArgs(),
	})
	defer func() {
		journal.LogEvent("run_end", outcome(err))
	}()

	stages, err := o.plan(req.Kind())
	if err != nil {
		return err
	}
	logger.LogProcessStep(fmt.Sprintf("Setting up %s for %s", req.Kind().DisplayName(), o.deps.Paths.SrcDir))

	st := &runState{}
	for i, s := range stages {
		logger.Logf("Stage %d/%d: %s", i+1, len(stages), s.name)
		if err := ctx.Err(); err != nil {
			return utils.NewStructuredError("INTERRUPTED", "interrupted", utils.CategoryUser, err).
				WithContext(&utils.ErrorContext{Operation: s.name})
		}
		journal.LogEvent("stage_start", map[string]any{"stage": s.name})
		serr := s.run(ctx, st)
		fields := outcome(serr)
		fields["stage"] = s.name
		journal.LogEvent("stage_end", fields)
		if serr != nil {
			return serr
		}
	}
	logger.Logf("ide %s finished", req.Kind())
	return nil
}

func outcome(err error) map[string]any {
	fields := map[string]any{"exit_code": utils.ExitCode(err)}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

func (o *Orchestrator) plan(kind Kind) ([]stage, error) {
	unknown := utils.NewStructuredError("UNKNOWN_IDE", fmt.Sprintf("unknown IDE %q", kind), utils.CategoryUser, nil)
	backend, ok := build.BackendFor(string(kind))
	if !ok {
		return nil, unknown
	}
	generate := stage{"ide.backend", o.backend(backend)}

	switch kind {
	case KindEclipse:
		return []stage{
			{"ide.locate", o.requireEclipse},
			{"ide.build", o.defaultBuild},
			generate,
			{"ide.launch", o.launchEclipse},
		}, nil
	case KindVisualStudio:
		return []stage{
			{"ide.build", o.defaultBuild},
			generate,
			{"ide.launch", o.launchVisualStudio},
		}, nil
	case KindVSCode:
		return []stage{
			{"ide.locate", o.locateEditor},
			{"ide.configure", o.configure},
			{"ide.stage", o.stageTargets},
			generate,
			{"ide.toolchain", o.ensureToolchain},
			{"ide.settings", o.mergeSettings},
			{"ide.launch", o.launchEditor},
		}, nil
	}
	return nil, unknown
}

func (o *Orchestrator) requireEclipse(ctx context.Context, st *runState) error {
	if _, err := o.deps.LookPath("eclipse"); err != nil {
		return utils.NewPrerequisiteError("ide.locate", "eclipse",
			"Eclipse CDT 8.4 or later must be installed in your PATH.").
			WithHint("Download: http://www.eclipse.org/cdt/downloads.php")
	}
	return nil
}

func (o *Orchestrator) defaultBuild(ctx context.Context, st *runState) error {
	return o.deps.Builder.DefaultBuild(ctx)
}

func (o *Orchestrator) configure(ctx context.Context, st *runState) error {
	return o.deps.Builder.Configure(ctx)
}

func (o *Orchestrator) stageTargets(ctx context.Context, st *runState) error {
	return o.deps.Builder.Stage(ctx, o.deps.Paths.ObjDir, build.VSCodeTargets...)
}

func (o *Orchestrator) backend(b build.Backend) func(context.Context, *runState) error {
	return func(ctx context.Context, st *runState) error {
		return o.deps.Backends.Generate(ctx, o.deps.Paths.ObjDir, b)
	}
}

func (o *Orchestrator) locateEditor(ctx context.Context, st *runState) error {
	c, err := o.deps.Locator.Locate(o.deps.Platform)
	if err != nil {
		return err
	}
	st.editor = c
	return nil
}

func (o *Orchestrator) ensureToolchain(ctx context.Context, st *runState) error {
	h, err := o.deps.Toolchain.Ensure(ctx, o.deps.Paths.StateDir, o.deps.Platform)
	if err != nil {
		return err
	}
	st.toolchain = h

	checks, found, err := toolchain.LoadTidyChecks(o.deps.Paths.SrcDir)
	if err != nil {
		return utils.NewStructuredError("CFG_PARSE_FAILED", "could not read the clang-tidy configuration",
			utils.CategoryConfigParse, err).
			WithContext(&utils.ErrorContext{Operation: "ide.toolchain", Resource: filepath.Join(o.deps.Paths.SrcDir, toolchain.TidyConfigPath)})
	}
	if !found {
		o.deps.Logger.LogWarning(fmt.Sprintf("%s not found; clang-tidy checks are disabled.", toolchain.TidyConfigPath))
	}
	st.checks = checks
	return nil
}

func (o *Orchestrator) mergeSettings(ctx context.Context, st *runState) error {
	cfg := toolchain.NewClangdConfig(st.toolchain, o.deps.Paths.ObjDir, o.deps.CPUs, st.checks)
	patch := settings.Patch{Path: cfg.BinaryPath, Arguments: cfg.Arguments()}

	st.settings = settings.Path(o.deps.Paths.SrcDir)
	res, err := o.deps.Settings.Merge(st.settings, patch)
	if err != nil {
		return err
	}
	if !res.Unchanged && !settings.IsIgnored(o.deps.Paths.SrcDir, st.settings) {
		o.deps.Logger.LogUserInteraction(fmt.Sprintf(
			"Note: %s holds paths specific to this machine and is not ignored by version control.", st.settings))
	}
	return nil
}

func (o *Orchestrator) launch(ctx context.Context, argv []string, hint string) error {
	o.deps.Logger.LogProcessStep(fmt.Sprintf("Launching %s", utils.ShellJoin(argv)))
	code, err := o.deps.Launcher.Run(ctx, "", argv)
	if err != nil || code != 0 {
		if code == 0 {
			code = 1
		}
		return utils.NewBuildStepError("ide.launch", argv[0], code, err).WithHint(hint)
	}
	return nil
}

func (o *Orchestrator) launchEditor(ctx context.Context, st *runState) error {
	src := o.deps.Paths.SrcDir
	return o.launch(ctx, st.editor.Launch(src),
		fmt.Sprintf("Unable to open VS Code. Please open VS Code manually and load directory: %s", src))
}

// EclipseWorkspace returns the workspace directory eclipse is opened with.
func EclipseWorkspace(srcDir, objDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(srcDir)), "eclipse_"+filepath.Base(filepath.Clean(objDir)))
}

func (o *Orchestrator) launchEclipse(ctx context.Context, st *runState) error {
	ws := EclipseWorkspace(o.deps.Paths.SrcDir, o.deps.Paths.ObjDir)
	return o.launch(ctx, []string{"eclipse", "-data", ws},
		fmt.Sprintf("Start eclipse manually with the workspace %s.", ws))
}

// SolutionPath returns the Visual Studio solution generated in objDir.
func SolutionPath(objDir, solution string) string {
	return filepath.Join(objDir, "msvc", solution)
}

func (o *Orchestrator) launchVisualStudio(ctx context.Context, st *runState) error {
	sln := SolutionPath(o.deps.Paths.ObjDir, o.deps.Paths.SolutionName)
	opener := o.deps.Platform.Opener()
	if opener == nil {
		return utils.NewPrerequisiteError("ide.launch", sln, "no file opener is known for this platform").
			WithHint(fmt.Sprintf("Open %s manually.", sln))
	}
	return o.launch(ctx, append(append([]string(nil), opener...), sln),
		fmt.Sprintf("Open %s manually.", sln))
}
