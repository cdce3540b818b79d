package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidName, "bad name: %s", "value")

	if err.Code != ErrCodeInvalidName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidName)
	}

	if err.Message != "bad name: value" {
		t.Errorf("Message = %v, want %v", err.Message, "bad name: value")
	}

	expected := "INVALID_NAME: bad name: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "failed to write")

	if err.Code != ErrCodeStorage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorage)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "STORAGE: failed to write: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEmptyGraph, "test"),
			code:     ErrCodeEmptyGraph,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEmptyGraph, "test"),
			code:     ErrCodeStorage,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeStorage, New(ErrCodeRecordNotFound, "inner"), "outer"),
			code:     ErrCodeStorage,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("load: %w", New(ErrCodeDanglingReference, "x")),
			code:     ErrCodeDanglingReference,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidName,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidName,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDuplicateLabel, "x")); got != ErrCodeDuplicateLabel {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeDuplicateLabel)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"structured", New(ErrCodeRecordNotFound, "Target Narrative Data does not exist!"), "Target Narrative Data does not exist!"},
		{"wrapped structured", fmt.Errorf("ctx: %w", New(ErrCodeInvalidName, "Please Enter a valid filename")), "Please Enter a valid filename"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{ErrCodeInvalidName, "Invalid File name"},
		{ErrCodeRecordNotFound, "File Not Found"},
		{ErrCodeDanglingReference, "Corrupt Narrative Data"},
		{ErrCodeDuplicateNode, "Corrupt Narrative Data"},
		{ErrCodeInternal, "Error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Title(New(tt.code, "x")); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
