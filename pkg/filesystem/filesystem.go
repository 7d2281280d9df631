package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks if a file or directory exists at the given path
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// WriteFileAtomic writes data next to filename and renames it into place,
// so readers see either the old or the new content. Parent directories are
// created as needed.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("could not set permissions on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("could not replace %s: %w", filename, err)
	}
	return nil
}

// MatchLineEndings converts content to CRLF when existing already uses CRLF.
func MatchLineEndings(existing, content []byte) []byte {
	if !bytes.Contains(existing, []byte("\r\n")) || bytes.Contains(content, []byte("\r\n")) {
		return content
	}
	return bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
}

// ResetDir removes dir and everything below it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("could not remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}
	return nil
}
