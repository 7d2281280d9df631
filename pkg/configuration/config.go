package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alantheprice/idekit/pkg/editor"
	"github.com/alantheprice/idekit/pkg/platform"
)

const (
	ConfigVersion  = "1.0"
	ConfigDirName  = ".idekit"
	ConfigFileName = "config.json"

	// DefaultStateDirName lives in the home directory and holds fetched toolchains.
	DefaultStateDirName = ".mozbuild"
	// DefaultObjDirName is used when neither the config nor MOZ_OBJDIR names one.
	DefaultObjDirName = "obj"
)

// Config represents the idekit configuration
type Config struct {
	Version string `json:"version"`

	// Locations
	StateDir string `json:"state_dir,omitempty"`
	ObjDir   string `json:"objdir,omitempty"`

	// Build engine commands
	Mach   string `json:"mach,omitempty"`
	Make   string `json:"make"`
	Python string `json:"python"`

	// SolutionName is opened from <objdir>/msvc for Visual Studio.
	SolutionName string `json:"solution_name"`

	// EditorCandidates are tried before the built-in install locations,
	// keyed by platform family (linux, macos, windows).
	EditorCandidates map[string][]editor.Candidate `json:"editor_candidates,omitempty"`

	// SkipPrompts answers every confirmation with yes
	SkipPrompts bool `json:"skip_prompts,omitempty"`
	// NonInteractive never reads from stdin
	NonInteractive bool `json:"non_interactive,omitempty"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Version:          ConfigVersion,
		Make:             "make",
		Python:           "python3",
		SolutionName:     "mozilla.sln",
		EditorCandidates: make(map[string][]editor.Candidate),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv("IDEKIT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ConfigDirName), nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath. A missing file yields
// the defaults.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return NewConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := NewConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.setDefaultValues()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

func (c *Config) setDefaultValues() {
	def := NewConfig()
	if c.Version == "" {
		c.Version = ConfigVersion
	}
	if c.Make == "" {
		c.Make = def.Make
	}
	if c.Python == "" {
		c.Python = def.Python
	}
	if c.SolutionName == "" {
		c.SolutionName = def.SolutionName
	}
	if c.EditorCandidates == nil {
		c.EditorCandidates = make(map[string][]editor.Candidate)
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Make == "" {
		return fmt.Errorf("make command cannot be empty")
	}
	if c.Python == "" {
		return fmt.Errorf("python command cannot be empty")
	}
	for family, candidates := range c.EditorCandidates {
		if !knownFamily(family) {
			return fmt.Errorf("editor_candidates: unknown platform %q (want linux, macos or windows)", family)
		}
		for i, cand := range candidates {
			if cand.ProbePath == "" {
				return fmt.Errorf("editor_candidates.%s[%d]: probe_path cannot be empty", family, i)
			}
		}
	}
	return nil
}

func knownFamily(name string) bool {
	switch platform.Family(name) {
	case platform.Linux, platform.MacOS, platform.Windows:
		return true
	}
	return false
}

// CandidateOverrides returns the configured editor candidates keyed by
// family. A candidate without a launch command launches its probe path.
func (c *Config) CandidateOverrides() map[platform.Family][]editor.Candidate {
	out := make(map[platform.Family][]editor.Candidate, len(c.EditorCandidates))
	for family, candidates := range c.EditorCandidates {
		for _, cand := range candidates {
			if len(cand.LaunchCommand) == 0 {
				cand.LaunchCommand = []string{cand.ProbePath}
			}
			out[platform.Family(family)] = append(out[platform.Family(family)], cand)
		}
	}
	return out
}

// ResolveStateDir returns the toolchain state directory:
// MOZBUILD_STATE_PATH, then state_dir, then ~/.mozbuild.
func (c *Config) ResolveStateDir() (string, error) {
	if dir := os.Getenv("MOZBUILD_STATE_PATH"); dir != "" {
		return dir, nil
	}
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultStateDirName), nil
}

// ResolveObjDir returns the object directory for the tree at srcDir:
// MOZ_OBJDIR, then objdir, then <srcDir>/obj. Relative values are taken
// relative to srcDir.
func (c *Config) ResolveObjDir(srcDir string) string {
	dir := os.Getenv("MOZ_OBJDIR")
	if dir == "" {
		dir = c.ObjDir
	}
	if dir == "" {
		dir = DefaultObjDirName
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(srcDir, dir)
	}
	return dir
}

// ResolveMach returns the mach driver for the tree at srcDir.
func (c *Config) ResolveMach(srcDir string) string {
	if c.Mach != "" {
		return c.Mach
	}
	return filepath.Join(srcDir, "mach")
}
