package toolchain

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ClangdConfig describes how the editor should run clangd.
type ClangdConfig struct {
	BinaryPath         string
	CompileCommandsDir string
	// Concurrency is the editor's background indexer job count, always >= 1.
	Concurrency int
	TidyChecks  []string
}

// NewClangdConfig derives the clangd configuration from an installed
// toolchain. Half the CPUs go to indexing.
func NewClangdConfig(h *Handle, objDir string, cpus int, checks []string) ClangdConfig {
	jobs := cpus / 2
	if jobs < 1 {
		jobs = 1
	}
	return ClangdConfig{
		BinaryPath:         h.BinaryPath,
		CompileCommandsDir: filepath.Join(objDir, "clangd"),
		Concurrency:        jobs,
		TidyChecks:         append([]string(nil), checks...),
	}
}

// Arguments renders the clangd command line the editor passes through.
func (c ClangdConfig) Arguments() []string {
	return []string{
		"--compile-commands-dir", c.CompileCommandsDir,
		"-j", strconv.Itoa(c.Concurrency),
		"--limit-results", "0",
		"--completion-style", "detailed",
		"--background-index",
		"--all-scopes-completion",
		"--log", "info",
		"--pch-storage", "memory",
		"--clang-tidy",
		"--clang-tidy-checks", strings.Join(c.TidyChecks, ","),
	}
}
