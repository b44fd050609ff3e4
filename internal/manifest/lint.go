package manifest

import "fmt"

// Warning is a non-fatal finding about a module entry.
type Warning struct {
	Category Category
	Dir      string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Category.Label(), w.Dir, w.Message)
}

// Lint returns findings that do not prevent a manifest from being used but
// degrade how modules are listed: missing fields and non-semver versions.
func Lint(m *Manifest) []Warning {
	var warnings []Warning
	for _, c := range Categories {
		mods := m.Modules(c)
		for _, dir := range mods.Names() {
			mod := mods[dir]
			add := func(msg string) {
				warnings = append(warnings, Warning{Category: c, Dir: dir, Message: msg})
			}
			if mod.Name == "" {
				add("missing name")
			}
			if mod.Zip == "" {
				add("missing zip")
			}
			if mod.Repo == "" {
				add("missing repo")
			}
			if mod.Version == "" {
				add("missing version")
			} else if err := CheckVersion(mod.Version); err != nil {
				add(err.Error())
			}
		}
	}
	return warnings
}
