package cmd

import (
	"errors"
	"fmt"

	"github.com/alantheprice/idekit/pkg/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idekit",
	Short: "Prepare a source tree for an IDE and launch it",
	Long: `idekit stages the build outputs an IDE's code tooling depends on, generates
the IDE project backend, writes the editor settings it needs and opens the IDE.

Available commands:
  ide      - Generate a project and launch an IDE (eclipse, visualstudio, vscode)
  version  - Print version information

For a VS Code setup, try: idekit ide vscode`,
	SilenceErrors: true,
}

// exitError carries a non-zero exit code whose cause has already been shown
// to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exited with code %d", e.code)
}

// Execute adds all child commands to the root command, runs it and returns
// the process exit code. This is called by main.main().
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	rootCmd.PrintErrln("Error:", err)
	return utils.ExitCode(err)
}

func init() {
	rootCmd.AddCommand(newIdeCmd())
}
