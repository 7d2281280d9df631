package settings

import (
	"bufio"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IsIgnored reports whether path is excluded by the .gitignore at root.
// A tree without a .gitignore ignores nothing.
func IsIgnored(root, path string) bool {
	lines, err := readIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil || len(lines) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return ignore.CompileIgnoreLines(lines...).MatchesPath(filepath.ToSlash(rel))
}

func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
