package registry

import (
	"fmt"

	"github.com/wcms-labs/wcms-modules/internal/manifest"
)

// ChangeKind classifies a difference between two registries.
type ChangeKind string

const (
	ChangeAdded      ChangeKind = "added"
	ChangeRemoved    ChangeKind = "removed"
	ChangeUpgraded   ChangeKind = "upgraded"
	ChangeDowngraded ChangeKind = "downgraded"
	ChangeModified   ChangeKind = "changed"
)

// Change is one module-level difference.
type Change struct {
	Kind       ChangeKind
	Category   manifest.Category
	Dir        string
	OldVersion string
	NewVersion string
}

func (c Change) String() string {
	label := c.Category.Label()
	switch c.Kind {
	case ChangeAdded:
		return fmt.Sprintf("%s %s added @ v%s", label, c.Dir, c.NewVersion)
	case ChangeRemoved:
		return fmt.Sprintf("%s %s removed (was v%s)", label, c.Dir, c.OldVersion)
	default:
		return fmt.Sprintf("%s %s %s v%s -> v%s", label, c.Dir, c.Kind, c.OldVersion, c.NewVersion)
	}
}

// Diff lists version-level differences from old to updated, ordered by
// category then directory name. A nil old registry means every module was
// added. Versions that are not semver are compared as plain strings.
func Diff(old, updated *Registry) []Change {
	var changes []Change
	for _, c := range manifest.Categories {
		var before manifest.Modules
		if old != nil {
			before = old.Modules(c)
		}
		after := updated.Modules(c)

		for _, dir := range after.Names() {
			newMod := after[dir]
			oldMod, existed := before[dir]
			if !existed {
				changes = append(changes, Change{Kind: ChangeAdded, Category: c, Dir: dir, NewVersion: newMod.Version})
				continue
			}
			if kind, ok := versionChange(oldMod.Version, newMod.Version); ok {
				changes = append(changes, Change{Kind: kind, Category: c, Dir: dir, OldVersion: oldMod.Version, NewVersion: newMod.Version})
			}
		}
		for _, dir := range before.Names() {
			if _, ok := after[dir]; !ok {
				changes = append(changes, Change{Kind: ChangeRemoved, Category: c, Dir: dir, OldVersion: before[dir].Version})
			}
		}
	}
	return changes
}

func versionChange(oldVersion, newVersion string) (ChangeKind, bool) {
	cmp, err := manifest.CompareVersions(oldVersion, newVersion)
	if err != nil {
		if oldVersion == newVersion {
			return "", false
		}
		return ChangeModified, true
	}
	switch {
	case cmp < 0:
		return ChangeUpgraded, true
	case cmp > 0:
		return ChangeDowngraded, true
	}
	return "", false
}
