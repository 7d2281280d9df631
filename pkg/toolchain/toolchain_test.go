package toolchain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArtifacts struct {
	code    int
	install bool
	suffix  string
	jobs    []string
	cwds    []string
}

func (f *fakeArtifacts) FetchToolchain(_ context.Context, jobTag string) (int, error) {
	f.jobs = append(f.jobs, jobTag)
	cwd, _ := os.Getwd()
	f.cwds = append(f.cwds, cwd)
	if f.install {
		bin := filepath.Join("clang-tidy", "bin")
		if err := os.MkdirAll(bin, 0755); err != nil {
			return 1, err
		}
		if err := os.WriteFile(filepath.Join(bin, BinaryName+f.suffix), nil, 0755); err != nil {
			return 1, err
		}
	}
	return f.code, nil
}

func newTestFetcher(a Artifacts) *Fetcher {
	t := utils.NewLogger(&bytes.Buffer{})
	return NewFetcher(a, t)
}

func linux64() platform.Descriptor { return platform.FromGOOS("linux", "amd64") }

func TestEnsureFastPathTouchesNothing(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	state := t.TempDir()
	h := ExpectedHandle(state, linux64())
	require.NoError(t, os.MkdirAll(filepath.Dir(h.BinaryPath), 0755))
	require.NoError(t, os.WriteFile(h.BinaryPath, []byte("bin"), 0755))
	sentinel := filepath.Join(h.InstallDir, "keep-me")
	require.NoError(t, os.WriteFile(sentinel, nil, 0644))

	artifacts := &fakeArtifacts{}
	got, err := newTestFetcher(artifacts).Ensure(context.Background(), state, linux64())

	require.NoError(t, err)
	assert.Equal(t, h.BinaryPath, got.BinaryPath)
	assert.Empty(t, artifacts.jobs)
	assert.FileExists(t, sentinel)
}

func TestEnsureFetchesWhenMissing(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	state := t.TempDir()
	stale := filepath.Join(state, ToolsDirName, "clang-tidy", "partial")
	require.NoError(t, os.MkdirAll(stale, 0755))
	orig, err := os.Getwd()
	require.NoError(t, err)

	artifacts := &fakeArtifacts{install: true}
	got, err := newTestFetcher(artifacts).Ensure(context.Background(), state, linux64())

	require.NoError(t, err)
	assert.Equal(t, []string{"linux64-clang-tidy"}, artifacts.jobs)
	assert.Equal(t, "linux64-clang-tidy", got.JobTag)
	assert.FileExists(t, got.BinaryPath)
	assert.NoDirExists(t, stale)

	wantCwd, _ := filepath.EvalSymlinks(got.InstallDir)
	gotCwd, _ := filepath.EvalSymlinks(artifacts.cwds[0])
	assert.Equal(t, wantCwd, gotCwd)
	cwd, _ := os.Getwd()
	assert.Equal(t, orig, cwd)
}

func TestEnsureWindowsUsesBinSuffix(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	artifacts := &fakeArtifacts{install: true, suffix: ".exe"}
	got, err := newTestFetcher(artifacts).Ensure(context.Background(), t.TempDir(), platform.FromGOOS("windows", "amd64"))

	require.NoError(t, err)
	assert.Equal(t, []string{"win64-clang-tidy"}, artifacts.jobs)
	assert.Equal(t, "clangd.exe", filepath.Base(got.BinaryPath))
}

func TestEnsureFetchFailurePropagatesCodeAndRestoresCwd(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	orig, err := os.Getwd()
	require.NoError(t, err)

	artifacts := &fakeArtifacts{code: 3}
	_, err = newTestFetcher(artifacts).Ensure(context.Background(), t.TempDir(), linux64())

	require.Error(t, err)
	assert.Equal(t, 3, utils.ExitCode(err))
	assert.True(t, utils.IsCategory(err, utils.CategoryBuild))
	cwd, _ := os.Getwd()
	assert.Equal(t, orig, cwd)
}

func TestEnsureUnsupportedPlatformMutatesNothing(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	state := t.TempDir()
	stale := filepath.Join(state, ToolsDirName, "old")
	require.NoError(t, os.MkdirAll(stale, 0755))

	artifacts := &fakeArtifacts{install: true}
	_, err := newTestFetcher(artifacts).Ensure(context.Background(), state, platform.FromGOOS("linux", "arm64"))

	require.Error(t, err)
	assert.Equal(t, 1, utils.ExitCode(err))
	assert.True(t, utils.IsCategory(err, utils.CategoryPrerequisite))
	assert.Empty(t, artifacts.jobs)
	assert.DirExists(t, stale)
}

func TestEnsureFetchSucceedsWithoutBinary(t *testing.T) {
	t.Setenv("IDEKIT_QUIET", "1")
	_, err := newTestFetcher(&fakeArtifacts{}).Ensure(context.Background(), t.TempDir(), linux64())
	require.Error(t, err)
	assert.True(t, utils.IsCategory(err, utils.CategoryPrerequisite))
}

func TestClangdConfigArguments(t *testing.T) {
	h := &Handle{BinaryPath: "/state/clang-tools/clang-tidy/bin/clangd"}
	cfg := NewClangdConfig(h, "/obj", 16, []string{"-*", "bugprone-*"})

	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, filepath.Join("/obj", "clangd"), cfg.CompileCommandsDir)
	assert.Equal(t, []string{
		"--compile-commands-dir", filepath.Join("/obj", "clangd"),
		"-j", "8",
		"--limit-results", "0",
		"--completion-style", "detailed",
		"--background-index",
		"--all-scopes-completion",
		"--log", "info",
		"--pch-storage", "memory",
		"--clang-tidy",
		"--clang-tidy-checks", "-*,bugprone-*",
	}, cfg.Arguments())
}

func TestClangdConfigConcurrencyIsPositive(t *testing.T) {
	for _, cpus := range []int{0, 1, 2, 3} {
		cfg := NewClangdConfig(&Handle{}, "/obj", cpus, nil)
		assert.GreaterOrEqual(t, cfg.Concurrency, 1, "cpus=%d", cpus)
	}
}

func TestLoadTidyChecks(t *testing.T) {
	src := t.TempDir()
	checks, found, err := LoadTidyChecks(src)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultTidyChecks, checks)

	path := filepath.Join(src, TidyConfigPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
target: obj-x86_64-pc-linux-gnu
platforms:
  - linux64
clang_checkers:
  - name: "-*"
    publish: true
  - name: bugprone-argument-comment
  - name: misc-unused-alias-decls
    publish: false
  - name: performance-move-const-arg
`), 0644))

	checks, found, err = LoadTidyChecks(src)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"-*", "bugprone-argument-comment", "performance-move-const-arg"}, checks)

	require.NoError(t, os.WriteFile(path, []byte("clang_checkers: [\n"), 0644))
	_, _, err = LoadTidyChecks(src)
	assert.Error(t, err)
}

func TestCommandArtifactsArgv(t *testing.T) {
	r := &argvRunner{}
	a := &CommandArtifacts{Runner: r, Mach: "/src/mach"}
	_, err := a.FetchToolchain(context.Background(), "linux64-clang-tidy")
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/mach", "artifact", "toolchain", "--from-build", "linux64-clang-tidy"}, r.argv)
	assert.Equal(t, "", r.dir)
}

type argvRunner struct {
	dir  string
	argv []string
}

func (r *argvRunner) Run(_ context.Context, dir string, argv []string) (int, error) {
	r.dir, r.argv = dir, argv
	return 0, nil
}
