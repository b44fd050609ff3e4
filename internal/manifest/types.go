package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FormatVersion is the only manifest format version understood.
const FormatVersion = 1

// Category is a registry section.
type Category string

const (
	CategoryPlugins Category = "plugins"
	CategoryThemes  Category = "themes"
)

// Categories lists every category in output order.
var Categories = []Category{CategoryPlugins, CategoryThemes}

// ParseCategory accepts "plugins"/"themes" and their singular forms.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "plugins", "plugin":
		return CategoryPlugins, nil
	case "themes", "theme":
		return CategoryThemes, nil
	}
	return "", fmt.Errorf("unknown module category %q", s)
}

// Label returns the singular display label ("Plugin", "Theme").
func (c Category) Label() string {
	switch c {
	case CategoryPlugins:
		return "Plugin"
	case CategoryThemes:
		return "Theme"
	}
	return string(c)
}

// Module is the metadata of one plugin or theme.
//
// A Module decoded from JSON remembers its source bytes and marshals them back
// unchanged, so manifest entries pass through the registry verbatim. The typed
// fields are a read-only view used for logging and diffs.
type Module struct {
	Name    string
	Version string
	Summary string
	Image   string
	Zip     string
	Repo    string

	raw json.RawMessage
}

// moduleJSON is the wire shape for synthesized modules.
type moduleJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Summary string `json:"summary"`
	Image   string `json:"image,omitempty"`
	Zip     string `json:"zip"`
	Repo    string `json:"repo"`
}

// MarshalJSON emits the original bytes for decoded modules.
func (m Module) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	return json.Marshal(moduleJSON{
		Name:    m.Name,
		Version: m.Version,
		Summary: m.Summary,
		Image:   m.Image,
		Zip:     m.Zip,
		Repo:    m.Repo,
	})
}

// UnmarshalJSON keeps data as-is and extracts the known fields. Non-string
// values (e.g. a numeric version) are exposed as their JSON text.
func (m *Module) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*m = Module{
		Name:    textField(fields, "name"),
		Version: textField(fields, "version"),
		Summary: textField(fields, "summary"),
		Image:   textField(fields, "image"),
		Zip:     textField(fields, "zip"),
		Repo:    textField(fields, "repo"),
		raw:     append(json.RawMessage(nil), data...),
	}
	return nil
}

// Verbatim reports whether m carries decoded source bytes.
func (m Module) Verbatim() bool { return m.raw != nil }

func textField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// Modules maps a directory name to its module metadata.
type Modules map[string]Module

// Names returns the directory names in sorted order.
func (ms Modules) Names() []string {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manifest is the content of a wcms-modules.json file found in a module
// repository.
type Manifest struct {
	Version int     `json:"version"`
	Plugins Modules `json:"plugins,omitempty"`
	Themes  Modules `json:"themes,omitempty"`
}

// New returns an empty manifest of the current format version.
func New() *Manifest {
	return &Manifest{Version: FormatVersion}
}

// Modules returns the section for c, which may be nil.
func (m *Manifest) Modules(c Category) Modules {
	switch c {
	case CategoryPlugins:
		return m.Plugins
	case CategoryThemes:
		return m.Themes
	}
	return nil
}

// Set stores mod under dir in section c, replacing any previous entry.
func (m *Manifest) Set(c Category, dir string, mod Module) {
	switch c {
	case CategoryPlugins:
		if m.Plugins == nil {
			m.Plugins = Modules{}
		}
		m.Plugins[dir] = mod
	case CategoryThemes:
		if m.Themes == nil {
			m.Themes = Modules{}
		}
		m.Themes[dir] = mod
	}
}

// Merge copies every entry of other into m. Entries of other win.
func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	for _, c := range Categories {
		for dir, mod := range other.Modules(c) {
			m.Set(c, dir, mod)
		}
	}
}

// Len returns the number of modules across all sections.
func (m *Manifest) Len() int {
	return len(m.Plugins) + len(m.Themes)
}
