package settings

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ownedView renders just the owned keys, with "" standing in for absent ones.
func ownedView(d *Document) (string, error) {
	view := EmptyDocument()
	for _, key := range OwnedKeys {
		v := d.Get(key)
		if !v.Exists() {
			if err := view.Set(key, ""); err != nil {
				return "", err
			}
			continue
		}
		raw, err := setRaw(view.raw, key, v.Raw)
		if err != nil {
			return "", fmt.Errorf("failed to render %s: %w", key, err)
		}
		view.raw = raw
	}
	return string(view.Bytes()), nil
}

// Preview shows how the owned keys change between before and after as a
// line diff.
func Preview(before, after *Document) (string, error) {
	oldText, err := ownedView(before)
	if err != nil {
		return "", err
	}
	newText, err := ownedView(after)
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}
