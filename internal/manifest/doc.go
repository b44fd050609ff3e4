// Package manifest defines the wcms-modules.json format shared by module
// repositories and the aggregated registry. It parses manifests, enforces the
// format version, validates structure against an embedded JSON schema, and
// derives display names and version checks for legacy modules.
package manifest
