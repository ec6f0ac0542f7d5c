package errors

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "hello-world", false},
		{"spaces", "my blog post", false},
		{"unicode", "組子細工", false},
		{"dots", "v1.2.3", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxSlugLength+1), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSlug) {
				t.Errorf("ValidateSlug(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSlug)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"file", "out.svg", false},
		{"nested", "art/hello.png", false},
		{"absolute", "/tmp/hello.svg", false},

		{"empty", "", true},
		{"directory", "art/", true},
		{"control", "out\x01.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
