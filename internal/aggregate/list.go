package aggregate

import (
	"fmt"
	"os"
	"strings"
)

// ReadList reads a newline-delimited list of repository URLs. Lines are
// trimmed and blank lines dropped.
func ReadList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading repository list %s: %w", path, err)
	}
	return ParseList(string(data)), nil
}

// ParseList splits content into trimmed, non-empty lines.
func ParseList(content string) []string {
	var urls []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
