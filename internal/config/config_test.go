package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCurrent_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	if err := Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := Current()
	if s.PluginsList != "plugins-list.json" {
		t.Errorf("PluginsList = %q", s.PluginsList)
	}
	if s.ThemesList != "themes-list.json" {
		t.Errorf("ThemesList = %q", s.ThemesList)
	}
	if s.Output != "wcms-modules.json" {
		t.Errorf("Output = %q", s.Output)
	}
	if s.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want 1", s.Concurrency)
	}
	if s.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", s.Timeout)
	}
}

func TestCurrent_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output: from-file.json\nconcurrency: 3\ntimeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WCMS_MODULES_OUTPUT", "from-env.json")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := Current()
	if s.Output != "from-env.json" {
		t.Errorf("Output = %q, want from-env.json", s.Output)
	}
	if s.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", s.Concurrency)
	}
	if s.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", s.Timeout)
	}
}

func TestCurrent_GitHubTokenFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")
	if err := Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := Current().GitHubToken; got != "ghp_fallback" {
		t.Errorf("GitHubToken = %q, want ghp_fallback", got)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestSet_WritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := Set(KeyConcurrency, "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".wcms-modules", "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}

	if err := Load(""); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := Current().Concurrency; got != 2 {
		t.Errorf("Concurrency after reload = %d, want 2", got)
	}
}
