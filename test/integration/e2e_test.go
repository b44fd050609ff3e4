//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wcms-labs/wcms-modules/internal/registry"
)

// TestFullFlowBuildWriteRebuild builds a registry, writes it, publishes a new
// release upstream, rebuilds, and checks the diff between the two files.
func TestFullFlowBuildWriteRebuild(t *testing.T) {
	env := setupTestEnv(t)
	env.GitHub.setRepo("robiso", "gallery", "master", map[string]string{
		"summary":     "Image gallery.\n",
		"version":     "1.0.0\n",
		"preview.png": "png",
	})
	env.GitHub.setRepo("robiso", "clean-blog", "main", map[string]string{
		"wcms-modules.json": `{"version":1,"themes":{"clean-blog":{"name":"Clean Blog","version":"3.1.0","summary":"Blog theme","zip":"z","repo":"r"}}}`,
	})

	src := registry.Sources{
		Plugins: env.writeList(t, "plugins-list.json", "https://github.com/robiso/gallery"),
		Themes:  env.writeList(t, "themes-list.json", "https://github.com/robiso/clean-blog"),
	}
	output := filepath.Join(env.WorkDir, "wcms-modules.json")

	// Step 1: First build.
	first, err := env.builder(1).Build(context.Background(), src)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	assertFileNotExists(t, output)
	if err := registry.Write(output, first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	assertFileExists(t, output)
	assertFileContains(t, output, `"name": "Gallery"`)
	assertFileContains(t, output, "/robiso/gallery/master/preview.png")

	// Step 2: Upstream releases a new gallery version.
	env.GitHub.setRepo("robiso", "gallery", "master", map[string]string{"version": "1.1.0"})

	// Step 3: Rebuild and diff against the file on disk.
	previous, err := registry.Load(output)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := env.builder(1).Build(context.Background(), src)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	changes := registry.Diff(previous, second)
	if len(changes) != 1 || changes[0].Kind != registry.ChangeUpgraded || changes[0].Dir != "gallery" {
		t.Fatalf("expected a single gallery upgrade, got %v", changes)
	}
	if err := registry.Write(output, second); err != nil {
		t.Fatalf("Write: %v", err)
	}
	assertFileContains(t, output, `"version": "1.1.0"`)
}

// TestFullFlowConcurrencyDoesNotChangeOutput checks that raising the
// per-list concurrency yields the same registry content.
func TestFullFlowConcurrencyDoesNotChangeOutput(t *testing.T) {
	env := setupTestEnv(t)

	var plugins, themes []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("plugin-%d", i)
		env.GitHub.setRepo("org", name, "master", map[string]string{
			"summary": "Plugin " + name,
			"version": fmt.Sprintf("1.%d.0", i),
		})
		plugins = append(plugins, "https://github.com/org/"+name)

		theme := fmt.Sprintf("theme_%d", i)
		env.GitHub.setRepo("org", theme, "main", map[string]string{
			"summary":     "Theme " + theme,
			"version":     "0.1.0",
			"preview.jpg": "jpg",
		})
		themes = append(themes, "https://github.com/org/"+theme)
	}
	// A duplicate directory name from another owner: the later entry wins.
	env.GitHub.setRepo("fork", "plugin-0", "master", map[string]string{"summary": "Fork", "version": "9.0.0"})
	plugins = append(plugins, "https://github.com/fork/plugin-0")

	src := registry.Sources{
		Plugins: env.writeList(t, "plugins-list.json", plugins...),
		Themes:  env.writeList(t, "themes-list.json", themes...),
	}

	sequential, err := env.builder(1).Build(context.Background(), src)
	if err != nil {
		t.Fatalf("sequential Build: %v", err)
	}
	parallel, err := env.builder(4).Build(context.Background(), src)
	if err != nil {
		t.Fatalf("parallel Build: %v", err)
	}
	parallel.Timestamp = sequential.Timestamp

	a, _ := registry.Marshal(sequential)
	b, _ := registry.Marshal(parallel)
	if !bytes.Equal(a, b) {
		t.Errorf("registries differ:\nsequential:\n%s\nparallel:\n%s", a, b)
	}
	if got := sequential.Plugins["plugin-0"].Version; got != "9.0.0" {
		t.Errorf("plugin-0 version = %q, want the later list entry", got)
	}
	if got := sequential.Themes["theme_3"].Name; got != "Theme 3" {
		t.Errorf("theme_3 name = %q", got)
	}
}

// TestFullFlowFailureKeepsPreviousRegistry checks that a failing repository
// aborts the build and the registry from the last good run stays on disk.
func TestFullFlowFailureKeepsPreviousRegistry(t *testing.T) {
	env := setupTestEnv(t)
	env.GitHub.setRepo("robiso", "gallery", "master", map[string]string{"summary": "s", "version": "1.0.0"})

	output := filepath.Join(env.WorkDir, "wcms-modules.json")
	src := registry.Sources{
		Plugins: env.writeList(t, "plugins-list.json", "https://github.com/robiso/gallery"),
		Themes:  env.writeList(t, "themes-list.json"),
	}
	good, err := env.builder(1).Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := registry.Write(output, good); err != nil {
		t.Fatalf("Write: %v", err)
	}
	before, _ := os.ReadFile(output)

	// The theme list now references a repository without a version file.
	env.GitHub.setRepo("robiso", "half-done", "master", map[string]string{"summary": "s"})
	src.Themes = env.writeList(t, "themes-list.json", "https://github.com/robiso/half-done")

	if _, err := env.builder(1).Build(context.Background(), src); err == nil {
		t.Fatal("expected build to fail")
	}
	after, _ := os.ReadFile(output)
	if !bytes.Equal(before, after) {
		t.Error("previous registry was modified by a failed build")
	}
	leftovers, _ := filepath.Glob(filepath.Join(env.WorkDir, ".wcms-modules.json.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
