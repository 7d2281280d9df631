// Package editor finds an installed editor binary for the host platform.
package editor

import (
	"errors"
	"fmt"

	"github.com/alantheprice/idekit/pkg/filesystem"
	"github.com/alantheprice/idekit/pkg/platform"
	"github.com/alantheprice/idekit/pkg/utils"
)

// ErrEditorNotFound is wrapped by the error Locate returns when no editor
// could be found or supplied.
var ErrEditorNotFound = errors.New("editor not found")

// PathPrompter asks the user for a path until valid accepts one.
type PathPrompter interface {
	AskPath(message string, valid func(string) bool) (string, error)
}

// Locator searches a per-platform candidate table and falls back to asking
// the user.
type Locator struct {
	candidates map[platform.Family][]Candidate
	prompter   PathPrompter
	logger     *utils.Logger
	exists     func(string) bool
}

// NewLocator creates a locator over candidates.
func NewLocator(candidates map[platform.Family][]Candidate, prompter PathPrompter, logger *utils.Logger) *Locator {
	return &Locator{
		candidates: candidates,
		prompter:   prompter,
		logger:     logger,
		exists:     filesystem.FileExists,
	}
}

// Locate returns the first candidate whose probe path exists. When none does,
// the user is asked for a path; a path that exists becomes a one-element
// launch command.
func (l *Locator) Locate(d platform.Descriptor) (*Candidate, error) {
	for _, c := range l.candidates[d.Family] {
		if l.exists(c.ProbePath) {
			l.logger.Logf("Found editor at %s", c.ProbePath)
			found := c
			return &found, nil
		}
		l.logger.Logf("No editor at %s", c.ProbePath)
	}

	if l.prompter != nil {
		path, err := l.prompter.AskPath("Could not find the VSCode binary. Please provide the full path to it:", l.exists)
		if err == nil {
			l.logger.Logf("Using editor path supplied by the user: %s", path)
			return &Candidate{ProbePath: path, LaunchCommand: []string{path}}, nil
		}
		l.logger.Logf("Editor path prompt ended: %v", err)
	}

	return nil, utils.NewStructuredError("PREREQ_MISSING", "VSCode cannot be found, aborting!",
		utils.CategoryPrerequisite, ErrEditorNotFound).
		WithContext(&utils.ErrorContext{Operation: "ide.locate", Resource: d.Family.String()}).
		WithHint(fmt.Sprintf("Install VS Code or add its location to editor_candidates.%s in the idekit config.", d.Family))
}
