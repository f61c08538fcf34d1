package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// FileWriter writes files and records them in a Result.
type FileWriter struct {
	result *Result
}

// NewFileWriter creates a new file writer with the given result tracker.
func NewFileWriter(result *Result) *FileWriter {
	return &FileWriter{
		result: result,
	}
}

// WriteFile creates or truncates path and writes content to it.
func (w *FileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, content, perm); err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}

	w.result.AddFile(path, int64(len(content)))
	filesWritten.Inc()

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)

	return nil
}

// WriteFileString writes string content to a file with the specified permissions.
func (w *FileWriter) WriteFileString(path, content string, perm os.FileMode) error {
	return w.WriteFile(path, []byte(content), perm)
}

// DirectoryManager creates output directories.
type DirectoryManager struct{}

// NewDirectoryManager creates a new directory manager.
func NewDirectoryManager() *DirectoryManager {
	return &DirectoryManager{}
}

// CreateDirectories creates multiple directories with the specified permissions.
func (m *DirectoryManager) CreateDirectories(dirs []string, perm os.FileMode) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, perm); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to create directory", err,
				map[string]any{"path": dir})
		}
	}
	return nil
}

// ContextChecker provides context cancellation checking.
type ContextChecker struct{}

// NewContextChecker creates a new context checker.
func NewContextChecker() *ContextChecker {
	return &ContextChecker{}
}

// Check returns the context error once ctx is done.
func (c *ContextChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ComputeChecksum computes the SHA256 checksum of the given content.
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ChecksumGenerator builds a checksums file for the files of a Result.
type ChecksumGenerator struct {
	result *Result
}

// NewChecksumGenerator creates a new checksum generator.
func NewChecksumGenerator(result *Result) *ChecksumGenerator {
	return &ChecksumGenerator{
		result: result,
	}
}

// Generate returns one "<sha256>  <relative path>" line per written file,
// sorted by path so the output does not depend on generation order.
func (g *ChecksumGenerator) Generate(outputDir, checksumFile string) (string, error) {
	g.result.mu.Lock()
	files := slices.Clone(g.result.Files)
	g.result.mu.Unlock()

	type entry struct{ rel, sum string }
	entries := make([]entry, 0, len(files))

	for _, file := range files {
		if filepath.Base(file) == checksumFile {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s for checksum: %w", file, err)
		}

		relPath, err := filepath.Rel(outputDir, file)
		if err != nil {
			relPath = filepath.Base(file)
		}
		entries = append(entries, entry{rel: filepath.ToSlash(relPath), sum: ComputeChecksum(content)})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.rel < b.rel:
			return -1
		case a.rel > b.rel:
			return 1
		}
		return 0
	})

	var content bytes.Buffer
	fmt.Fprintf(&content, "# Tuning Tables Checksums (SHA256)\n")
	fmt.Fprintf(&content, "# Run: %s\n", g.result.RunID)
	fmt.Fprintf(&content, "# Generated: %s\n\n", g.result.GeneratedAt())
	for _, e := range entries {
		fmt.Fprintf(&content, "%s  %s\n", e.sum, e.rel)
	}

	return content.String(), nil
}
