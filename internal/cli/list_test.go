package cli

import (
	"testing"

	"github.com/wcms-labs/wcms-modules/internal/manifest"
)

func TestMatchesSearch(t *testing.T) {
	mod := manifest.Module{Name: "Contact Form", Summary: "Sends visitor messages by email"}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"empty query matches all", "", true},
		{"directory match", "contact-form", true},
		{"name match", "Contact Form", true},
		{"case insensitive", "CONTACT", true},
		{"summary match", "by email", true},
		{"no match", "gallery", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesSearch("contact-form", mod, tt.query); got != tt.expected {
				t.Errorf("matchesSearch(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}
