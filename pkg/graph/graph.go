package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Record Serialization API
// =============================================================================

// ParseFormat converts a format name to a Format. Matching is
// case-insensitive and accepts "yml" as an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported record format %q", s)
	}
}

// FormatFromPath picks a format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Marshal encodes a record in the given format.
func Marshal(rec *Record, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(rec, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record from data in the given format.
func Unmarshal(data []byte, format Format) (*Record, error) {
	return Read(bytes.NewReader(data), format)
}

// Write encodes a record to w. JSON output is indented with two spaces.
func Write(rec *Record, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return fmt.Errorf("unsupported record format %q", format)
	}
	return nil
}

// Read decodes a record from r.
func Read(r io.Reader, format Format) (*Record, error) {
	var rec Record
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
	return &rec, nil
}

// WriteFile writes a record to path, choosing the format from the extension.
// The file is created with 0644 permissions.
func WriteFile(rec *Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(rec, f, FormatFromPath(path))
}

// ReadFile reads a record from path, choosing the format from the extension.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
