package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wcms-labs/wcms-modules/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the builder.
const (
	KeyPluginsList = "plugins_list"
	KeyThemesList  = "themes_list"
	KeyOutput      = "output"
	KeyConcurrency = "concurrency"
	KeyTimeout     = "timeout"
	KeyGitHubToken = "github_token"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyGitHubURL   = "github_url"
	KeyRawURL      = "raw_url"
)

// Keys lists every key in the order shown by `config --help`.
var Keys = []string{
	KeyPluginsList, KeyThemesList, KeyOutput, KeyConcurrency, KeyTimeout,
	KeyGitHubToken, KeyLogLevel, KeyLogFormat, KeyGitHubURL, KeyRawURL,
}

// DefaultTimeout is the per-request ceiling for every HTTP call.
const DefaultTimeout = 30 * time.Second

// Settings is a typed snapshot of the effective configuration.
type Settings struct {
	PluginsList string
	ThemesList  string
	Output      string
	Concurrency int
	Timeout     time.Duration
	GitHubToken string
	LogLevel    string
	LogFormat   string
	GitHubURL   string
	RawURL      string
}

// Dir returns the path to the config directory (~/.wcms-modules/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the default config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyPluginsList, "plugins-list.json")
	viper.SetDefault(KeyThemesList, "themes-list.json")
	viper.SetDefault(KeyOutput, branding.ManifestFile())
	viper.SetDefault(KeyConcurrency, 1)
	viper.SetDefault(KeyTimeout, DefaultTimeout)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyGitHubURL, "https://github.com")
	viper.SetDefault(KeyRawURL, "https://raw.githubusercontent.com")
}

// Load resets Viper and initializes it from the config file and environment.
// An empty path means the default file, which may be absent. An explicit path
// must exist.
func Load(path string) error {
	viper.Reset()
	setDefaults()

	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	viper.SetConfigFile(FilePath())
	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
	return nil
}

// BindFlag makes a command-line flag take precedence over every other source
// for key. Unknown flags are ignored.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding flag --%s: %w", flag.Name, err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the effective settings. The GitHub token falls back to
// GITHUB_TOKEN when not configured under the tool's own prefix.
func Current() Settings {
	s := Settings{
		PluginsList: viper.GetString(KeyPluginsList),
		ThemesList:  viper.GetString(KeyThemesList),
		Output:      viper.GetString(KeyOutput),
		Concurrency: viper.GetInt(KeyConcurrency),
		Timeout:     viper.GetDuration(KeyTimeout),
		GitHubToken: viper.GetString(KeyGitHubToken),
		LogLevel:    viper.GetString(KeyLogLevel),
		LogFormat:   viper.GetString(KeyLogFormat),
		GitHubURL:   viper.GetString(KeyGitHubURL),
		RawURL:      viper.GetString(KeyRawURL),
	}
	if s.GitHubToken == "" {
		s.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	return s
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = FilePath()
	}

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
