package main

import (
	"os"

	"github.com/alantheprice/idekit/cmd"
	"github.com/alantheprice/idekit/pkg/utils"
)

func main() {
	// Get the logger instance
	logger := utils.GetLogger()

	code := cmd.Execute()
	if code != 0 {
		logger.Logf("idekit exited with code %d", code)
	}

	// os.Exit skips deferred calls, so close the logger first
	if err := logger.Close(); err != nil {
		os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
	}
	os.Exit(code)
}
