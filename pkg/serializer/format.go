// Package serializer reads and writes JSON and YAML documents from files,
// stdin, HTTP URLs and Kubernetes ConfigMaps, with transparent decompression.
package serializer

import (
	"path/filepath"
	"strings"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the supported format names.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// FormatFromPath detects the format from a path or URI extension, ignoring a
// trailing compression extension. Anything not YAML is read as JSON.
func FormatFromPath(path string) Format {
	base := strings.ToLower(path)
	if c := CompressionFromPath(base); c != CompressionNone {
		base = strings.TrimSuffix(base, string(c))
	}
	switch filepath.Ext(base) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
