package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrVersionMismatch is returned when a manifest declares a format
	// version other than FormatVersion.
	ErrVersionMismatch = errors.New("unsupported manifest version")
	// ErrInvalidManifest is returned for manifests that are not valid JSON or
	// do not match the schema.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Parse decodes a manifest. The format version is checked before anything
// else, then the document is validated against the embedded schema.
func Parse(data []byte) (*Manifest, error) {
	var head struct {
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := checkFormatVersion(head.Version); err != nil {
		return nil, err
	}

	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, result.Summary())
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// ParseFile reads a manifest file and parses it.
func ParseFile(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// checkFormatVersion accepts only the JSON integer 1. Strings, null, other
// spellings such as 1.0, and a missing field are mismatches.
func checkFormatVersion(raw json.RawMessage) error {
	shown := strings.TrimSpace(string(raw))
	if shown == strconv.Itoa(FormatVersion) {
		return nil
	}
	if shown == "" {
		shown = "(missing)"
	}
	return fmt.Errorf("%w %s", ErrVersionMismatch, shown)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
