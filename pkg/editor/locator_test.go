package editor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/ui"
	"github.com/alantheprice/idekit/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existing(paths ...string) func(string) bool {
	set := map[string]bool{}
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func newTestLocator(candidates map[platform.Family][]Candidate, input string, exists func(string) bool) (*Locator, *bytes.Buffer) {
	var out bytes.Buffer
	l := NewLocator(candidates, ui.NewPrompter(strings.NewReader(input), &out), utils.NewLogger(&bytes.Buffer{}))
	l.exists = exists
	return l, &out
}

func TestLocateReturnsFirstExistingCandidatePerPlatform(t *testing.T) {
	home := "/home/dev"
	candidates := DefaultCandidates(home)
	winStable := filepath.Join(home, "AppData", "Local", "Programs", "Microsoft VS Code", "Code.exe")
	winInsiders := filepath.Join(home, "AppData", "Local", "Programs", "Microsoft VS Code Insiders", "Code - Insiders.exe")

	tests := []struct {
		name     string
		goos     string
		present  []string
		wantCmd  []string
		wantPath string
	}{
		{"linux snap beats /usr/bin", "linux", []string{"/usr/bin/code", "/snap/bin/code"}, []string{"/snap/bin/code"}, "/snap/bin/code"},
		{"linux insiders only", "linux", []string{"/usr/bin/code-insiders"}, []string{"/usr/bin/code-insiders"}, "/usr/bin/code-insiders"},
		{"macos app bundle", "darwin", []string{"/Applications/Visual Studio Code.app"},
			[]string{"open", "/Applications/Visual Studio Code.app", "--args"}, "/Applications/Visual Studio Code.app"},
		{"macos cli wins", "darwin", []string{"/Applications/Visual Studio Code.app", "/usr/local/bin/code"},
			[]string{"/usr/local/bin/code"}, "/usr/local/bin/code"},
		{"windows stable before insiders", "windows", []string{winInsiders, winStable}, []string{winStable}, winStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLocator(candidates, "", existing(tt.present...))
			got, err := l.Locate(platform.FromGOOS(tt.goos, "amd64"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, got.ProbePath)
			assert.Equal(t, tt.wantCmd, got.LaunchCommand)
		})
	}
}

func TestLocateOrderOnlyMattersWhenEarlierCandidateExists(t *testing.T) {
	a := direct("/opt/a/code")
	b := direct("/opt/b/code")
	linux := platform.FromGOOS("linux", "amd64")

	for _, present := range [][]string{{"/opt/b/code"}, {"/opt/a/code"}, {"/opt/a/code", "/opt/b/code"}} {
		forward, _ := newTestLocator(map[platform.Family][]Candidate{platform.Linux: {a, b}}, "", existing(present...))
		reverse, _ := newTestLocator(map[platform.Family][]Candidate{platform.Linux: {b, a}}, "", existing(present...))

		f, err := forward.Locate(linux)
		require.NoError(t, err)
		r, err := reverse.Locate(linux)
		require.NoError(t, err)

		if len(present) == 1 {
			assert.Equal(t, f, r, "single install must be found regardless of order")
		} else {
			assert.NotEqual(t, f.ProbePath, r.ProbePath, "both installed: order decides")
		}
	}
}

func TestLocateFallsBackToPrompt(t *testing.T) {
	l, out := newTestLocator(DefaultCandidates("/home/dev"), "/nope\n/opt/vscode/code\n", existing("/opt/vscode/code"))

	got, err := l.Locate(platform.FromGOOS("linux", "amd64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/vscode/code"}, got.LaunchCommand)
	assert.Equal(t, 2, strings.Count(out.String(), "Could not find the VSCode binary"))
}

func TestLocateGivesUpAfterFiveAttempts(t *testing.T) {
	input := strings.Repeat("/nope\n", 6) + "/opt/vscode/code\n"
	l, out := newTestLocator(DefaultCandidates("/home/dev"), input, existing("/opt/vscode/code"))

	got, err := l.Locate(platform.FromGOOS("linux", "amd64"))
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEditorNotFound))
	assert.Equal(t, 1, utils.ExitCode(err))
	assert.Equal(t, 5, strings.Count(out.String(), "Could not find the VSCode binary"))
}

func TestLocateUnsupportedPlatformPromptsOnly(t *testing.T) {
	l, _ := newTestLocator(DefaultCandidates("/home/dev"), "/usr/bin/code\n", existing("/usr/bin/code"))

	got, err := l.Locate(platform.FromGOOS("plan9", "386"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/code", got.ProbePath)
}

func TestLocateUsesRealFilesystem(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "code")
	require.NoError(t, os.WriteFile(bin, nil, 0755))

	l := NewLocator(map[platform.Family][]Candidate{platform.Linux: {direct("/definitely/missing"), direct(bin)}}, nil, utils.NewLogger(&bytes.Buffer{}))
	got, err := l.Locate(platform.Descriptor{Family: platform.Linux})
	require.NoError(t, err)
	assert.Equal(t, bin, got.ProbePath)
}

func TestMergeCandidatesPrependsOverrides(t *testing.T) {
	base := DefaultCandidates("/home/dev")
	custom := direct("/opt/code/bin/code")
	merged := MergeCandidates(base, map[platform.Family][]Candidate{platform.Linux: {custom}})

	require.Len(t, merged[platform.Linux], len(base[platform.Linux])+1)
	assert.Equal(t, custom, merged[platform.Linux][0])
	assert.Equal(t, base[platform.MacOS], merged[platform.MacOS])
	assert.Len(t, base[platform.Linux], 4, "base table must not be mutated")
}

func TestCandidateLaunchAppendsWorkspace(t *testing.T) {
	c := macApp("/Applications/Visual Studio Code.app")
	assert.Equal(t, []string{"open", "/Applications/Visual Studio Code.app", "--args", "/src"}, c.Launch("/src"))
	assert.Len(t, c.LaunchCommand, 3)
}
