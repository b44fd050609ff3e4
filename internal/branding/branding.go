// Package branding holds the tool's identity: command name, config home,
// env prefix, HTTP user agent, and the manifest file name shared by module
// repositories and the generated registry. Values come from the embedded
// branding.yaml.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	UserAgent    string `yaml:"user_agent"`
	ManifestFile string `yaml:"manifest_file"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:      "wcms-modules",
			DisplayName:  "WCMS Modules",
			Description:  "Builds the WonderCMS plugin and theme registry",
			HomeDir:      ".wcms-modules",
			EnvPrefix:    "WCMS_MODULES",
			UserAgent:    "wcms-modules-builder",
			ManifestFile: "wcms-modules.json",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName is the root command name.
func CLIName() string { load(); return defaults.CLIName }

func DisplayName() string { load(); return defaults.DisplayName }

func Description() string { load(); return defaults.Description }

// HomeDir is the directory under $HOME holding config.yaml.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix prefixes every environment override of a config key.
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// UserAgent is sent with every GitHub request.
func UserAgent() string { load(); return defaults.UserAgent }

// ManifestFile names both the per-repository manifest and the default
// registry output.
func ManifestFile() string { load(); return defaults.ManifestFile }

// EnvVar returns the environment variable overriding config key, e.g.
// "github_token" becomes "WCMS_MODULES_GITHUB_TOKEN".
func EnvVar(key string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(key)
}
