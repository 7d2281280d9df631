package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/alantheprice/idekit/pkg/configuration"
	"github.com/alantheprice/idekit/pkg/orchestration"
	"github.com/alantheprice/idekit/pkg/utils"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/alantheprice/idekit/cmd.version=...".
var (
	version   = "dev"
	buildDate = ""
	gitCommit = ""
)

// buildInfo describes this binary and where it keeps its files.
type buildInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit,omitempty"`
	BuildDate  string   `json:"build_date,omitempty"`
	Modified   bool     `json:"modified,omitempty"`
	GoVersion  string   `json:"go_version"`
	Platform   string   `json:"platform"`
	IDEs       []string `json:"ides"`
	ConfigFile string   `json:"config_file,omitempty"`
	LogFile    string   `json:"log_file"`
}

// collectBuildInfo merges the link-time variables with what the Go toolchain
// stamped into the binary. Link-time values win.
func collectBuildInfo() buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		LogFile:   utils.LogFilePath(),
	}
	for _, k := range orchestration.Kinds {
		info.IDEs = append(info.IDEs, string(k))
	}
	if path, err := configuration.GetConfigPath(); err == nil {
		info.ConfigFile = path
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func (b buildInfo) writeText(w io.Writer) {
	fmt.Fprintf(w, "idekit version %s\n", b.Version)
	if b.Commit != "" {
		commit := b.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if b.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(w, "Git commit: %s\n", commit)
	}
	if b.BuildDate != "" {
		fmt.Fprintf(w, "Build date: %s\n", b.BuildDate)
	}
	fmt.Fprintf(w, "Go version: %s\n", b.GoVersion)
	fmt.Fprintf(w, "Platform: %s\n", b.Platform)
	fmt.Fprintf(w, "IDEs: %s\n", strings.Join(b.IDEs, ", "))
	if b.ConfigFile != "" {
		fmt.Fprintf(w, "Config file: %s\n", b.ConfigFile)
	}
	fmt.Fprintf(w, "Log file: %s\n", b.LogFile)
}

func (b buildInfo) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the idekit version, the commit it was built from, the IDEs it can set
up and where it reads its configuration and writes its log.

The --version and -v flags on the root command print the same text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := collectBuildInfo()
			if asJSON {
				return info.writeJSON(cmd.OutOrStdout())
			}
			info.writeText(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.Flags().BoolP("version", "v", false, "Print version information and exit")
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			collectBuildInfo().writeText(cmd.OutOrStdout())
			return
		}
		_ = cmd.Help()
	}
}
