package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alantheprice/idekit/pkg/build"
	"github.com/alantheprice/idekit/pkg/common"
	"github.com/alantheprice/idekit/pkg/configuration"
	"github.com/alantheprice/idekit/pkg/editor"
	"github.com/alantheprice/idekit/pkg/orchestration"
	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/settings"
	"github.com/alantheprice/idekit/pkg/toolchain"
	"github.com/alantheprice/idekit/pkg/ui"
	"github.com/alantheprice/idekit/pkg/utils"
	"github.com/spf13/cobra"
)

type ideOptions struct {
	srcDir         string
	objDir         string
	stateDir       string
	configPath     string
	assumeYes      bool
	nonInteractive bool
}

// ideInvocation is a fully resolved ide command line.
type ideInvocation struct {
	request        orchestration.Request
	paths          orchestration.Paths
	config         *configuration.Config
	assumeYes      bool
	nonInteractive bool
}

// runIde wires the real collaborators and runs the orchestrator. Tests
// replace it.
var runIde = func(ctx context.Context, inv *ideInvocation) int {
	logger := utils.GetLogger()
	prompter := ui.NewTerminalPrompter(inv.assumeYes, inv.nonInteractive)
	runner := common.NewProcessRunner(logger)
	mach := inv.config.ResolveMach(inv.paths.SrcDir)

	engine := &build.CommandEngine{
		Runner: runner,
		SrcDir: inv.paths.SrcDir,
		Mach:   mach,
		Make:   inv.config.Make,
		Python: inv.config.Python,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		logger.LogWarning(fmt.Sprintf("Could not determine the home directory: %v", err))
	}
	candidates := editor.MergeCandidates(editor.DefaultCandidates(home), inv.config.CandidateOverrides())

	var journal *utils.RunLogger
	if dir, err := configuration.GetConfigDir(); err == nil {
		journal, err = utils.OpenRunLogger(filepath.Join(dir, "runs"), logger.CorrelationID())
		if err != nil {
			logger.Logf("Run journal disabled: %v", err)
		}
	}
	defer journal.Close()

	o := orchestration.NewOrchestrator(orchestration.Dependencies{
		Locator:   editor.NewLocator(candidates, prompter, logger),
		Builder:   build.NewStager(engine, logger),
		Backends:  build.NewBackendGenerator(engine, logger),
		Toolchain: toolchain.NewFetcher(&toolchain.CommandArtifacts{Runner: runner, Mach: mach}, logger),
		Settings:  settings.NewMerger(prompter, logger),
		Launcher:  runner,
		Platform:  platform.Detect(),
		Paths:     inv.paths,
		Logger:    logger,
		Journal:   journal,
	})
	return o.Run(ctx, inv.request)
}

func newIdeCmd() *cobra.Command {
	opts := &ideOptions{}

	cmd := &cobra.Command{
		Use:   "ide <eclipse|visualstudio|vscode> [args...]",
		Short: "Generate a project and launch an IDE",
		Long: `Generate a project and launch an IDE.

eclipse and visualstudio run a full build, generate the IDE backend and open
the generated project. vscode configures the tree, builds the targets clangd
needs, fetches clangd into the state directory, writes clangd.path and
clangd.arguments into .vscode/settings.json and opens the source directory.

Flags must come before the IDE name; everything after it is passed through.`,
		ValidArgs: []string{"eclipse", "visualstudio", "vscode"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("requires an IDE: eclipse, visualstudio or vscode")
			}
			_, err := orchestration.ParseKind(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			inv, err := opts.resolve(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if code := runIde(ctx, inv); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.srcDir, "srcdir", "", "Source tree to open (default: current directory)")
	cmd.Flags().StringVar(&opts.objDir, "objdir", "", "Object directory (default: $MOZ_OBJDIR, the config objdir, or <srcdir>/obj)")
	cmd.Flags().StringVar(&opts.stateDir, "state-dir", "", "Toolchain state directory (default: $MOZBUILD_STATE_PATH or ~/.mozbuild)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default: ~/.idekit/config.json)")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Never prompt; confirmations are declined")

	return cmd
}

func (o *ideOptions) loadConfig() (*configuration.Config, error) {
	if o.configPath != "" {
		return configuration.LoadFrom(o.configPath)
	}
	return configuration.Load()
}

// resolve turns the flags and positional arguments into an invocation.
// Flags win over the config file and environment.
func (o *ideOptions) resolve(args []string) (*ideInvocation, error) {
	kind, err := orchestration.ParseKind(args[0])
	if err != nil {
		return nil, err
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, utils.NewConfigError("config", err).
			WithHint("Fix or remove the idekit config file.")
	}

	srcDir := o.srcDir
	if srcDir == "" {
		if srcDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	if srcDir, err = filepath.Abs(srcDir); err != nil {
		return nil, fmt.Errorf("failed to resolve srcdir: %w", err)
	}

	objDir := o.objDir
	if objDir == "" {
		objDir = cfg.ResolveObjDir(srcDir)
	}
	if objDir, err = filepath.Abs(objDir); err != nil {
		return nil, fmt.Errorf("failed to resolve objdir: %w", err)
	}

	stateDir := o.stateDir
	if stateDir == "" {
		if stateDir, err = cfg.ResolveStateDir(); err != nil {
			return nil, err
		}
	}
	if stateDir, err = filepath.Abs(stateDir); err != nil {
		return nil, fmt.Errorf("failed to resolve state dir: %w", err)
	}

	return &ideInvocation{
		request: orchestration.NewRequest(kind, args[1:]),
		paths: orchestration.Paths{
			SrcDir:       srcDir,
			ObjDir:       objDir,
			StateDir:     stateDir,
			SolutionName: cfg.SolutionName,
		},
		config:         cfg,
		assumeYes:      o.assumeYes || cfg.SkipPrompts,
		nonInteractive: o.nonInteractive || cfg.NonInteractive,
	}, nil
}
