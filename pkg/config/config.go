// Package config handles loading and validation of the release configuration.
//
// The configuration is read from .release-toolbox.yml in the repository root,
// falling back to ~/.config/release-toolbox/config.yml. Keys missing from the
// file keep their default value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/sgaunet/release-toolbox/pkg/backport"
)

// File names searched by Load.
const (
	ProjectFileName = ".release-toolbox.yml"
	userConfigDir   = "release-toolbox"
	userConfigFile  = "config.yml"
)

var (
	errVersionFileEmpty    = errors.New("project.version_file is not set")
	errChangelogFileEmpty  = errors.New("project.changelog_file is not set")
	errDevelopBranchEmpty  = errors.New("project.develop_branch is not set")
	errTestCommandEmpty    = errors.New("steps.test is not set")
	errBackportCommand     = errors.New("backport.command is not a valid template")
	errMaintainerEmpty     = errors.New("backport maintainer is empty")
	errMaintainerInvalid   = errors.New("backport maintainer is not a valid username")
	errLocalizationIncompl = errors.New("localization title and author must be set together")

	// ErrVersionFileEmpty is returned when no version file is configured.
	ErrVersionFileEmpty = errVersionFileEmpty
	// ErrChangelogFileEmpty is returned when no changelog file is configured.
	ErrChangelogFileEmpty = errChangelogFileEmpty
	// ErrDevelopBranchEmpty is returned when no development branch is configured.
	ErrDevelopBranchEmpty = errDevelopBranchEmpty
	// ErrTestCommandEmpty is returned when no test command is configured.
	ErrTestCommandEmpty = errTestCommandEmpty
	// ErrBackportCommandInvalid is returned when the backport command does not parse.
	ErrBackportCommandInvalid = errBackportCommand
	// ErrMaintainerEmpty is returned for a blank maintainer entry.
	ErrMaintainerEmpty = errMaintainerEmpty
	// ErrMaintainerInvalid is returned for a maintainer that is not a forge username.
	ErrMaintainerInvalid = errMaintainerInvalid
	// ErrLocalizationIncomplete is returned when only one of the localization keys is set.
	ErrLocalizationIncomplete = errLocalizationIncompl
)

// usernamePattern accepts GitHub and GitLab usernames: alphanumerics with
// inner hyphens or underscores, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9_-]{0,37}[a-zA-Z0-9])?$`)

// Config represents the complete configuration of the release toolbox.
type Config struct {
	Project      ProjectConfig      `yaml:"project"`
	Steps        StepsConfig        `yaml:"steps"`
	Backport     BackportConfig     `yaml:"backport"`
	Localization LocalizationConfig `yaml:"localization"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// ProjectConfig describes the repository layout.
type ProjectConfig struct {
	VersionFile   string `yaml:"version_file"`
	ChangelogFile string `yaml:"changelog_file"`
	DevelopBranch string `yaml:"develop_branch"`
	// ModulePrefix is prepended to module names in changelog lines.
	ModulePrefix string `yaml:"module_prefix"`
	// RepositoryURL overrides the browsable URL derived from the remote.
	RepositoryURL string `yaml:"repository_url"`
}

// StepsConfig lists the external commands run during a release.
type StepsConfig struct {
	// Bump runs after the version file has been rewritten.
	Bump    []string          `yaml:"bump"`
	Test    string            `yaml:"test"`
	TestEnv map[string]string `yaml:"test_env"`
}

// BackportConfig configures the backport command and tracking issues.
type BackportConfig struct {
	Command     string   `yaml:"command"`
	Maintainers []string `yaml:"maintainers"`
}

// LocalizationConfig identifies the pull requests of the translation bot.
// A release does not start while one of them is open.
type LocalizationConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Default returns the configuration used when no file sets a key.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			VersionFile:   ".decidim-version",
			ChangelogFile: "CHANGELOG.md",
			DevelopBranch: "develop",
			ModulePrefix:  "decidim-",
		},
		Steps: StepsConfig{
			Bump: []string{
				"bin/rake update_versions",
				"bin/rake patch_generators",
				"bin/rake bundle",
				"npm install",
			},
			Test: "bin/rspec",
			TestEnv: map[string]string{
				"ENFORCED_LOCALES":   "en,ca,es",
				"SKIP_NORMALIZATION": "true",
			},
		},
		Backport: BackportConfig{
			Command: backport.DefaultCommand,
		},
		Localization: LocalizationConfig{
			Title:  "New Crowdin updates",
			Author: "decidim-bot",
		},
	}
}

// Load reads the configuration for the repository at dir. It tries the
// project file first, then the user file, and returns the defaults when
// neither exists.
func Load(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, ProjectFileName)}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".config", userConfigDir, userConfigFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}

	cfg := Default()
	return cfg, cfg.Validate()
}

// LoadFile reads, merges over the defaults and validates a single file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304 - reading the configuration file chosen by the user is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	for i, m := range c.Backport.Maintainers {
		c.Backport.Maintainers[i] = strings.TrimSpace(m)
	}
	c.Localization.Title = strings.TrimSpace(c.Localization.Title)
	c.Localization.Author = strings.TrimSpace(c.Localization.Author)
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Project.VersionFile) == "":
		return errVersionFileEmpty
	case strings.TrimSpace(c.Project.ChangelogFile) == "":
		return errChangelogFileEmpty
	case strings.TrimSpace(c.Project.DevelopBranch) == "":
		return errDevelopBranchEmpty
	case strings.TrimSpace(c.Steps.Test) == "":
		return errTestCommandEmpty
	case (c.Localization.Title == "") != (c.Localization.Author == ""):
		return errLocalizationIncompl
	}

	if c.Backport.Command != "" {
		if _, err := template.New("backport").Parse(c.Backport.Command); err != nil {
			return fmt.Errorf("%w: %w", errBackportCommand, err)
		}
	}

	for _, m := range c.Backport.Maintainers {
		if err := validateUsername(m); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errMaintainerEmpty
	}
	if !usernamePattern.MatchString(trimmed) {
		return fmt.Errorf("%w: %q", errMaintainerInvalid, trimmed)
	}
	return nil
}
