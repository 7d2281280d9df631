package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTidyChecks is used when the tree has no clang-tidy configuration.
var DefaultTidyChecks = []string{"-*"}

// TidyConfigPath is the tree-relative location of the clang-tidy configuration.
var TidyConfigPath = filepath.Join("tools", "clang-tidy", "config.yaml")

type tidyChecker struct {
	Name    string `yaml:"name"`
	Publish *bool  `yaml:"publish,omitempty"`
}

type tidyConfig struct {
	Checkers []tidyChecker `yaml:"clang_checkers"`
}

// LoadTidyChecks reads the enabled clang-tidy checks for the tree at srcDir,
// in file order, skipping checkers marked `publish: false`. found is false
// when the tree has no configuration, in which case the defaults are returned.
func LoadTidyChecks(srcDir string) (checks []string, found bool, err error) {
	path := filepath.Join(srcDir, TidyConfigPath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return append([]string(nil), DefaultTidyChecks...), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg tidyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, c := range cfg.Checkers {
		if c.Name == "" || (c.Publish != nil && !*c.Publish) {
			continue
		}
		checks = append(checks, c.Name)
	}
	if len(checks) == 0 {
		checks = append([]string(nil), DefaultTidyChecks...)
	}
	return checks, true, nil
}
