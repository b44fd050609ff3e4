package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcms-labs/wcms-modules/internal/manifest"
)

// Registry is the aggregated wcms-modules.json written by the builder.
type Registry struct {
	Version   int              `json:"version"`
	Timestamp string           `json:"timestamp"`
	Plugins   manifest.Modules `json:"plugins"`
	Themes    manifest.Modules `json:"themes"`
}

// FromManifest wraps m into a registry stamped with at.
func FromManifest(m *manifest.Manifest, at time.Time) *Registry {
	r := &Registry{
		Version:   manifest.FormatVersion,
		Timestamp: at.UTC().Format(time.RFC3339),
		Plugins:   manifest.Modules{},
		Themes:    manifest.Modules{},
	}
	for dir, mod := range m.Plugins {
		r.Plugins[dir] = mod
	}
	for dir, mod := range m.Themes {
		r.Themes[dir] = mod
	}
	return r
}

// Modules returns the section for c.
func (r *Registry) Modules(c manifest.Category) manifest.Modules {
	switch c {
	case manifest.CategoryPlugins:
		return r.Plugins
	case manifest.CategoryThemes:
		return r.Themes
	}
	return nil
}

// Marshal serializes r with 4-space indentation and a trailing newline.
func Marshal(r *Registry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshaling registry: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with r. The data goes to a temp file in
// the same directory first and is renamed into place, so readers never see
// a partially written registry.
func Write(path string, r *Registry) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	if r.Version != manifest.FormatVersion {
		return nil, fmt.Errorf("registry %s: %w %d", path, manifest.ErrVersionMismatch, r.Version)
	}
	return &r, nil
}
