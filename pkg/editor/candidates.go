package editor

import (
	"path/filepath"

	"github.com/alantheprice/idekit/pkg/platform"
)

// Candidate is one place an editor may be installed.
type Candidate struct {
	// ProbePath is checked for existence.
	ProbePath string `json:"probe_path"`
	// LaunchCommand is the executable plus leading arguments; the workspace
	// root is appended when launching.
	LaunchCommand []string `json:"launch_command"`
}

// Launch returns the full command that opens workspace.
func (c Candidate) Launch(workspace string) []string {
	argv := make([]string, 0, len(c.LaunchCommand)+1)
	argv = append(argv, c.LaunchCommand...)
	return append(argv, workspace)
}

func direct(path string) Candidate {
	return Candidate{ProbePath: path, LaunchCommand: []string{path}}
}

func macApp(app string) Candidate {
	return Candidate{ProbePath: app, LaunchCommand: []string{"open", app, "--args"}}
}

// DefaultCandidates lists known VS Code install locations per platform,
// stable releases before insiders builds.
func DefaultCandidates(home string) map[platform.Family][]Candidate {
	programs := filepath.Join(home, "AppData", "Local", "Programs")
	return map[platform.Family][]Candidate{
		platform.Linux: {
			direct("/usr/local/bin/code"),
			direct("/snap/bin/code"),
			direct("/usr/bin/code"),
			direct("/usr/bin/code-insiders"),
		},
		platform.MacOS: {
			direct("/usr/local/bin/code"),
			macApp("/Applications/Visual Studio Code.app"),
			macApp("/Applications/Visual Studio Code - Insiders.app"),
		},
		platform.Windows: {
			direct(filepath.Join(programs, "Microsoft VS Code", "Code.exe")),
			direct(filepath.Join(programs, "Microsoft VS Code Insiders", "Code - Insiders.exe")),
		},
		platform.Unsupported: nil,
	}
}

// MergeCandidates puts extra candidates ahead of base for each family.
func MergeCandidates(base, extra map[platform.Family][]Candidate) map[platform.Family][]Candidate {
	out := make(map[platform.Family][]Candidate, len(base))
	for family, list := range base {
		out[family] = append([]Candidate(nil), list...)
	}
	for family, list := range extra {
		out[family] = append(append([]Candidate(nil), list...), out[family]...)
	}
	return out
}
