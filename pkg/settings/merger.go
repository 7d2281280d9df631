package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/alantheprice/idekit/pkg/filesystem"
	"github.com/alantheprice/idekit/pkg/utils"
)

// ErrDeclined is wrapped by the error Merge returns when the user refuses to
// overwrite conflicting settings.
var ErrDeclined = errors.New("settings change declined")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// Result describes what Merge did.
type Result struct {
	Created   bool
	Unchanged bool
	Discarded bool // the previous file could not be parsed
	Conflicts []string
}

// Merger applies a Patch to a settings file on disk.
type Merger struct {
	confirmer Confirmer
	logger    *utils.Logger
}

func NewMerger(confirmer Confirmer, logger *utils.Logger) *Merger {
	return &Merger{confirmer: confirmer, logger: logger}
}

// Merge reads the settings file at path (a missing file is an empty
// document, an unparsable one is discarded with a warning), asks before
// overwriting owned keys that hold different values, applies patch and
// writes the file back atomically. On any error the file is left as it was.
func (m *Merger) Merge(path string, patch Patch) (*Result, error) {
	res := &Result{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		// a file in place of the settings directory surfaces when writing
		res.Created = true
		data = nil
	case err != nil:
		return nil, utils.NewStructuredError("CFG_READ_FAILED", "could not read settings", utils.CategoryUser, err).
			WithContext(&utils.ErrorContext{Operation: "ide.settings", Resource: path})
	}

	doc := EmptyDocument()
	if !res.Created {
		parsed, perr := ParseDocument(data)
		if perr != nil {
			res.Discarded = true
			m.logger.LogWarning(fmt.Sprintf("%s could not be parsed (%v); its contents will be replaced.", path, perr))
		} else {
			doc = parsed
		}
	}

	before := &Document{raw: append([]byte(nil), doc.raw...)}
	if err := doc.Apply(patch); err != nil {
		return nil, utils.NewStructuredError("CFG_MERGE_FAILED", "could not merge settings", utils.CategoryUser, err).
			WithContext(&utils.ErrorContext{Operation: "ide.settings", Resource: path})
	}

	res.Conflicts = before.Conflicts(patch)
	if len(res.Conflicts) > 0 {
		preview, err := Preview(before, doc)
		if err != nil {
			return nil, utils.NewStructuredError("CFG_MERGE_FAILED", "could not preview settings change", utils.CategoryUser, err).
				WithContext(&utils.ErrorContext{Operation: "ide.settings", Resource: path})
		}
		m.logger.LogUserInteraction("The following modifications will occur:\n" + preview)
		msg := fmt.Sprintf("Configuration for %s must change. Do you want to proceed?", path)
		if !m.confirmer.Confirm(msg) {
			m.logger.Logf("User declined overwriting %v in %s", res.Conflicts, path)
			return res, utils.NewStructuredError("CFG_CONFLICT", "settings change declined", utils.CategoryConfigConflict, ErrDeclined).
				WithContext(&utils.ErrorContext{Operation: "ide.settings", Resource: path})
		}
	}

	out := filesystem.MatchLineEndings(data, doc.Bytes())
	if bytes.Equal(out, data) {
		res.Unchanged = true
		m.logger.Logf("%s is already up to date", path)
		return res, nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := filesystem.WriteFileAtomic(path, out, perm); err != nil {
		return nil, utils.NewConfigWriteError(path, err).
			WithHint(fmt.Sprintf("Set %q and %q in %s by hand, or open the editor and load the source directory directly.", PathKey, ArgumentsKey, path))
	}
	m.logger.Logf("Wrote %s (created=%v, discarded=%v)", path, res.Created, res.Discarded)
	return res, nil
}
