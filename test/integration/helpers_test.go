//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wcms-labs/wcms-modules/internal/aggregate"
	"github.com/wcms-labs/wcms-modules/internal/fetch"
	"github.com/wcms-labs/wcms-modules/internal/metadata"
	"github.com/wcms-labs/wcms-modules/internal/registry"
	"github.com/wcms-labs/wcms-modules/internal/repo"
)

// testEnv holds an isolated working directory and a fake GitHub.
type testEnv struct {
	WorkDir string
	GitHub  *fakeGitHub
	Server  *httptest.Server
}

// fakeGitHub serves tree pages under /gh/<owner>/<name>/tree/<branch> and
// raw files under /raw/<owner>/<name>/<branch>/<file>. Files can be changed
// between builds.
type fakeGitHub struct {
	mu       sync.Mutex
	branches map[string]string
	files    map[string]string
}

func (g *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rest, ok := strings.CutPrefix(r.URL.Path, "/gh/"); ok {
		parts := strings.Split(rest, "/")
		if len(parts) == 4 && parts[2] == "tree" && g.branches[parts[0]+"/"+parts[1]] == parts[3] {
			return
		}
		http.NotFound(w, r)
		return
	}
	body, ok := g.files[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		w.Write([]byte(body))
	}
}

// setRepo publishes a repository on branch with the given root files.
func (g *fakeGitHub) setRepo(owner, name, branch string, files map[string]string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.branches[owner+"/"+name] = branch
	for file, body := range files {
		g.files["/raw/"+owner+"/"+name+"/"+branch+"/"+file] = body
	}
}

// setupTestEnv creates a temp working directory and starts a fake GitHub.
// HOME is redirected so no user config leaks into the run.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	gh := &fakeGitHub{branches: map[string]string{}, files: map[string]string{}}
	server := httptest.NewServer(gh)
	t.Cleanup(server.Close)

	return &testEnv{WorkDir: t.TempDir(), GitHub: gh, Server: server}
}

// builder wires the real pipeline against the fake GitHub.
func (e *testEnv) builder(concurrency int) *registry.Builder {
	client := fetch.New(fetch.WithHTTPClient(e.Server.Client()))
	resolver := repo.NewResolver(client,
		repo.WithGitHubBase(e.Server.URL+"/gh"),
		repo.WithRawBase(e.Server.URL+"/raw"),
	)
	agg := aggregate.New(resolver, metadata.NewFetcher(client), aggregate.WithConcurrency(concurrency))
	return registry.NewBuilder(agg)
}

// writeList writes a repository list into the working directory.
func (e *testEnv) writeList(t *testing.T, name string, urls ...string) string {
	t.Helper()
	path := filepath.Join(e.WorkDir, name)
	writeFile(t, path, strings.Join(urls, "\n")+"\n")
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("expected %s to contain %q", path, substr)
	}
}
