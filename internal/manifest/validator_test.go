package manifest

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFile_Valid(t *testing.T) {
	for _, file := range []string{"valid-multi.json", "valid-numeric-version.json"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidateFile_Invalid(t *testing.T) {
	tests := []struct {
		file string
		path string
	}{
		{"invalid-plugins-array.json", "/plugins"},
		{"invalid-module-name-type.json", "/themes/sky/name"},
		{"invalid-version-2.json", "/version"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s, got valid", tt.file)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an issue at %s, got %+v", tt.path, result.Issues)
			}
			if !strings.Contains(result.Summary(), tt.path) {
				t.Errorf("Summary() = %q, want it to mention %s", result.Summary(), tt.path)
			}
		})
	}
}

func TestValidate_BadDirectoryName(t *testing.T) {
	result, err := Validate([]byte(`{"version":1,"plugins":{"../escape/x":{}}}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected directory name with a slash to be rejected")
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := ValidateFile(testPath("invalid-json.json"))
	if !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
}
