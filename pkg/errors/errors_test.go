package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidInput, "size must be positive, got %d", -1)
	if err.Error() != "INVALID_INPUT: size must be positive, got -1" {
		t.Errorf("Error() = %q", err.Error())
	}

	cause := errors.New("rsvg-convert: not found")
	wrapped := Wrap(ErrCodeRasterFailed, cause, "render %s", "a.svg")
	if wrapped.Error() != "RASTER_FAILED: render a.svg: rsvg-convert: not found" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"direct", New(ErrCodeUnknownScheme, "unknown color scheme: %q", "x"), ErrCodeUnknownScheme, `unknown color scheme: "x"`},
		{"outer code wins", Wrap(ErrCodeInvalidConfig, inner, "config.toml"), ErrCodeInvalidConfig, "config.toml"},
		{"through fmt", fmt.Errorf("gallery: %w", inner), ErrCodeInvalidInput, "inner"},
		{"plain", errors.New("boom"), "", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should have no code")
	}
}

func TestDescribe(t *testing.T) {
	err := Wrap(ErrCodeInvalidConfig,
		Wrap(ErrCodeInvalidConfig, errors.New("line 3: expected '='"), "parse toml"),
		"config.toml")
	want := "config.toml: parse toml: line 3: expected '='"
	if got := Describe(err); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if got := Describe(errors.New("plain")); got != "plain" {
		t.Errorf("Describe(plain) = %q", got)
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidInput, "x"), true},
		{New(ErrCodeInvalidFormat, "x"), true},
		{New(ErrCodeInvalidSlug, "x"), true},
		{New(ErrCodeInvalidPath, "x"), true},
		{New(ErrCodeUnknownScheme, "x"), true},
		{Wrap(ErrCodeInvalidConfig, errors.New("bad"), "x"), true},
		{New(ErrCodeRasterFailed, "x"), false},
		{New(ErrCodeFileNotFound, "x"), false},
		{New(ErrCodeUnsupported, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsClientError(tt.err); got != tt.want {
			t.Errorf("IsClientError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
