/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

const testDatabase = `{
  "sections": [
    {
      "kernel_family": "xgemm", "precision": "32",
      "clblast_device_vendor": "AMD", "clblast_device_type": "GPU",
      "clblast_device_architecture": "Tahiti", "clblast_device_name": "Radeon HD 7970",
      "kernel": "Xgemm", "results": [{"time": 1.0, "parameters": {"KWG": 16, "MWG": 64}}]
    },
    {
      "kernel_family": "xgemm", "precision": "32",
      "clblast_device_vendor": "default", "clblast_device_type": "All",
      "clblast_device_architecture": "", "clblast_device_name": "default",
      "kernel": "Xgemm", "results": [{"time": 2.0, "parameters": {"KWG": 32, "MWG": 32}}]
    },
    {
      "kernel_family": "copy", "precision": "64",
      "clblast_device_vendor": "default", "clblast_device_type": "All",
      "clblast_device_architecture": "", "clblast_device_name": "default",
      "kernel": "Copy", "results": [{"time": 1.0, "parameters": {"WPT": 2}}]
    },
    {
      "kernel_family": "copy", "precision": "32",
      "clblast_device_vendor": "default", "clblast_device_type": "All",
      "clblast_device_architecture": "", "clblast_device_name": "default",
      "kernel": "Copy", "results": [{"time": 1.0, "parameters": {"WPT": 1}}]
    }
  ]
}`

func writeDatabase(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(context.Background(), append([]string{name}, args...))
	return stdout.String(), err
}

func TestGenerate(t *testing.T) {
	db := writeDatabase(t, testDatabase)
	out := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	stdout, err := run(t, "generate", "-d", db, "-o", out, "--checksums", "--metrics-file", metrics)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Generated 4 tables (1 from defaults) in 9 files")
	for _, f := range []string{
		"xgemm/xgemm_32.hpp", "xgemm/xgemm_64.hpp", "xgemm/xgemm.cpp", "xgemm/xgemm.hpp",
		"copy/copy_32.hpp", "copy/copy_64.hpp", "copy/copy.cpp", "copy/copy.hpp",
		"checksums.txt",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}

	m, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(m), "ttgen_files_written_total")
	assert.Contains(t, string(m), `ttgen_generate_total{status="success"}`)
}

func TestGenerate_Layout(t *testing.T) {
	db := writeDatabase(t, testDatabase)
	out := t.TempDir()

	_, err := run(t, "generate", "-d", db, "-o", out, "--family", "copy",
		"--project", "Tuner", "--namespace", "acme", "--namespace", "tables", "--include-prefix", "gen")
	require.NoError(t, err)

	header, err := os.ReadFile(filepath.Join(out, "copy", "copy.hpp"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "part of the Tuner project")
	assert.Contains(t, string(header), "namespace acme {\nnamespace tables {\n")

	sources, err := os.ReadFile(filepath.Join(out, "copy", "copy.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(sources), `#include "gen/copy/copy_64.hpp"`)
	assert.NoDirExists(t, filepath.Join(out, "xgemm"))
}

func TestGenerate_PrecisionFilter(t *testing.T) {
	db := writeDatabase(t, testDatabase)
	out := t.TempDir()

	stdout, err := run(t, "generate", "-d", db, "-o", out, "--precision", "16")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Generated 2 tables (2 from defaults) in 6 files")
	assert.FileExists(t, filepath.Join(out, "copy", "copy_16.hpp"))
	assert.NoFileExists(t, filepath.Join(out, "copy", "copy_32.hpp"))
}

func TestGenerate_Report(t *testing.T) {
	db := writeDatabase(t, testDatabase)

	stdout, err := run(t, "generate", "-d", db, "-o", t.TempDir(), "--report", "-", "--format", "json")
	require.NoError(t, err)

	var report struct {
		RunID     string   `json:"runId"`
		Version   string   `json:"version"`
		Tables    int      `json:"tables"`
		Fallbacks []string `json:"fallbacks"`
		Success   bool     `json:"success"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, version, report.Version)
	assert.Equal(t, 4, report.Tables)
	assert.Equal(t, []string{"xgemm:64"}, report.Fallbacks)
	assert.True(t, report.Success)
}

func TestGenerate_Errors(t *testing.T) {
	db := writeDatabase(t, testDatabase)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown format",
			args:    []string{"generate", "-d", db, "-o", t.TempDir(), "--format", "xml"},
			wantErr: "unknown output format",
		},
		{
			name:    "family typo",
			args:    []string{"generate", "-d", db, "-o", t.TempDir(), "--family", "xgem"},
			wantErr: `did you mean "xgemm"?`,
		},
		{
			name:    "precision typo",
			args:    []string{"generate", "-d", db, "-o", t.TempDir(), "--precision", "646"},
			wantErr: `did you mean "64"?`,
		},
		{
			name:    "invalid parallelism",
			args:    []string{"generate", "-d", db, "-o", t.TempDir(), "--parallel", "0"},
			wantErr: "invalid flags",
		},
		{
			name:    "watch remote database",
			args:    []string{"generate", "-d", "https://example.com/db.json", "-o", t.TempDir(), "--watch"},
			wantErr: "--watch requires a local database file",
		},
		{
			name:    "missing database",
			args:    []string{"generate", "-d", filepath.Join(t.TempDir(), "missing.json"), "-o", t.TempDir()},
			wantErr: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_InconsistentDatabase(t *testing.T) {
	content := strings.Replace(testDatabase, `{"time": 2.0, "parameters": {"KWG": 32, "MWG": 32}}`,
		`{"time": 2.0, "parameters": {"KWG": 32}}`, 1)
	content = strings.Replace(content, `"clblast_device_vendor": "AMD", "clblast_device_type": "GPU",
      "clblast_device_architecture": "Tahiti", "clblast_device_name": "Radeon HD 7970"`,
		`"clblast_device_vendor": "default", "clblast_device_type": "All",
      "clblast_device_architecture": "", "clblast_device_name": "default"`, 1)
	db := writeDatabase(t, content)

	_, err := run(t, "generate", "-d", db, "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent database")
}

func TestPrecisions(t *testing.T) {
	stdout, err := run(t, "precisions", "--format", "json")
	require.NoError(t, err)

	var infos []precisionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	assert.Equal(t, []precisionInfo{
		{Code: "16", Name: "Half"},
		{Code: "32", Name: "Single"},
		{Code: "3232", Name: "ComplexSingle"},
		{Code: "64", Name: "Double"},
		{Code: "6464", Name: "ComplexDouble"},
	}, infos)
}

func TestPrecisions_Table(t *testing.T) {
	stdout, err := run(t, "precisions")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "FIELD"))
	assert.Contains(t, stdout, "ComplexDouble")
}

func TestPrecisions_Database(t *testing.T) {
	stdout, err := run(t, "precisions", "-d", writeDatabase(t, testDatabase), "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, `code: "32"`)
	assert.Contains(t, stdout, "name: Double")
	assert.NotContains(t, stdout, "Half")

	unknown := strings.Replace(testDatabase, `"precision": "64"`, `"precision": "128"`, 1)
	_, err = run(t, "precisions", "-d", writeDatabase(t, unknown))
	var target *database.UnknownPrecisionError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "128", target.Code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", fmt.Errorf("generate: %w", context.Canceled), ExitCanceled},
		{"invalid", cnserrors.New(cnserrors.ErrCodeInvalidRequest, "bad flag"), ExitInvalid},
		{"not found", cnserrors.Wrap(cnserrors.ErrCodeNotFound, "missing", errors.New("enoent")), ExitNotFound},
		{"unavailable", cnserrors.New(cnserrors.ErrCodeUnavailable, "down"), ExitUnavailable},
		{"timeout", cnserrors.New(cnserrors.ErrCodeTimeout, "slow"), ExitTimeout},
		{"internal", cnserrors.New(cnserrors.ErrCodeInternal, "boom"), ExitFailure},
		{"plain", errors.New("inconsistent database"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCode_Commands(t *testing.T) {
	db := writeDatabase(t, testDatabase)

	_, err := run(t, "generate", "-d", db, "-o", t.TempDir(), "--precision", "646")
	assert.Equal(t, ExitInvalid, ExitCode(err))

	_, err = run(t, "generate", "-d", filepath.Join(t.TempDir(), "missing.json"), "-o", t.TempDir())
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = run(t, "generate", "-d", db, "-o", t.TempDir(), "--format", "xml")
	assert.Equal(t, ExitInvalid, ExitCode(err))
}

func TestLogAttributes(t *testing.T) {
	db := writeDatabase(t, testDatabase)

	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(context.Background(), []string{name, "generate", "-d", db, "-o", t.TempDir()})
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "name="+name)
	assert.Contains(t, stderr.String(), "version="+version)
}
