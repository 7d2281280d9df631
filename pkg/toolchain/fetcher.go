// Package toolchain makes sure the clang tooling used for code indexing is
// installed under the state directory, and derives the clangd configuration
// an editor needs from it.
package toolchain

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alantheprice/idekit/pkg/filesystem"
	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/utils"
)

const (
	// ToolsDirName is the install directory below the state directory.
	ToolsDirName = "clang-tools"
	// JobSuffix is appended to the platform tag to name the artifact job.
	JobSuffix = "-clang-tidy"
	// BinaryName is the language server the editor talks to.
	BinaryName = "clangd"
)

// Artifacts is the external toolchain download/unpack collaborator. It
// installs into the current working directory.
type Artifacts interface {
	FetchToolchain(ctx context.Context, jobTag string) (int, error)
}

// Handle locates an installed toolchain.
type Handle struct {
	InstallDir string
	BinaryPath string
	JobTag     string
}

// ExpectedHandle returns where the toolchain lives for stateDir and d.
func ExpectedHandle(stateDir string, d platform.Descriptor) Handle {
	installDir := filepath.Join(stateDir, ToolsDirName)
	h := Handle{
		InstallDir: installDir,
		BinaryPath: filepath.Join(installDir, "clang-tidy", "bin", BinaryName+d.BinSuffix),
	}
	if d.Supported() {
		h.JobTag = d.JobTag + JobSuffix
	}
	return h
}

// Fetcher ensures the toolchain is present, fetching it when it is not.
type Fetcher struct {
	artifacts Artifacts
	logger    *utils.Logger
	exists    func(string) bool
}

func NewFetcher(artifacts Artifacts, logger *utils.Logger) *Fetcher {
	return &Fetcher{artifacts: artifacts, logger: logger, exists: filesystem.FileExists}
}

// Ensure returns the installed toolchain. When the binary is already present
// nothing is touched. Otherwise the install directory is wiped, recreated and
// filled by the artifact collaborator, which runs with the install directory
// as its working directory.
func (f *Fetcher) Ensure(ctx context.Context, stateDir string, d platform.Descriptor) (*Handle, error) {
	stateDir, err := filepath.Abs(stateDir)
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	h := ExpectedHandle(stateDir, d)
	if f.exists(h.BinaryPath) {
		f.logger.Logf("Using cached %s at %s", BinaryName, h.BinaryPath)
		return &h, nil
	}
	f.logger.LogProcessStep(fmt.Sprintf("Unable to locate %s in %s.", BinaryName, filepath.Dir(h.BinaryPath)))

	if !d.Supported() {
		return nil, utils.NewPrerequisiteError("ide.toolchain", d.Family.String(), "The current platform isn't supported.").
			WithHint("Currently only the following platforms are supported: win32/win64, linux64 and macosx64.")
	}

	if err := filesystem.ResetDir(h.InstallDir); err != nil {
		return nil, utils.NewStructuredError("FS_ERROR", "could not prepare toolchain directory",
			utils.CategoryPrerequisite, err).
			WithContext(&utils.ErrorContext{Operation: "ide.toolchain", Resource: h.InstallDir})
	}

	f.logger.LogProcessStep(fmt.Sprintf("Fetching %s into %s", h.JobTag, h.InstallDir))
	var code int
	err = filesystem.WithWorkingDir(h.InstallDir, func() error {
		var ferr error
		code, ferr = f.artifacts.FetchToolchain(ctx, h.JobTag)
		return ferr
	})
	if err != nil || code != 0 {
		return nil, utils.NewBuildStepError("ide.toolchain", h.JobTag, code, err).
			WithHint(fmt.Sprintf("Retry the toolchain fetch; %s will be recreated.", h.InstallDir))
	}

	if !f.exists(h.BinaryPath) {
		return nil, utils.NewPrerequisiteError("ide.toolchain", h.BinaryPath,
			fmt.Sprintf("%s was fetched but %s is missing", h.JobTag, BinaryName))
	}
	return &h, nil
}
