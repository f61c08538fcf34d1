/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/defaults"
	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
	"github.com/NVIDIA/tuning-tables/pkg/generator"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
	"github.com/NVIDIA/tuning-tables/pkg/grouper"
	"github.com/NVIDIA/tuning-tables/pkg/serializer"
	"github.com/NVIDIA/tuning-tables/pkg/watch"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		Aliases:               []string{"gen"},
		EnableShellCompletion: true,
		Usage:                 "Generate C++ tuning tables from a tuning database",
		Description: `Reads a tuning database and writes, for every kernel family, one table
per precision plus a family source and header file.

# Output

  - <output>/<family>/<family>_<precision>.hpp: best parameters per device
  - <output>/<family>/<family>.cpp: includes the family header and every table
  - <output>/<family>/<family>.hpp: declares every table
  - <output>/checksums.txt: SHA256 of every file (with --checksums)

Every precision found anywhere in the database gets a table in every family.
Families without results for a precision fall back to their default entries
of precision 32.

# Examples

Generate all families:
  ttgen generate --database database.json --output src/database/kernels

Generate only the GEMM families, four at a time:
  ttgen generate -d database.yaml.zst -o out --family 'xgemm*' --parallel 4

Generate only the double precision tables:
  ttgen generate -d database.json -o out --precision 64

Read the database from a ConfigMap and publish the run summary:
  ttgen generate -d cm://tuning/database -o out --report cm://tuning/ttgen-report

Regenerate whenever the database file changes:
  ttgen generate -d database.json -o out --watch`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database",
				Aliases:  []string{"d"},
				Required: true,
				Usage: `Path/URI of the tuning database (JSON or YAML, optionally .zst, .gz or .lz4 compressed).
	Supports: file paths, '-' for stdin, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "Output directory for the generated sources",
			},
			&cli.StringSliceFlag{
				Name:  "family",
				Usage: "Only generate families matching the pattern (exact, prefix*, *suffix, *contains*; can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "precision",
				Usage: "Only generate the given precision codes (16, 32, 64, 3232, 6464; can be repeated)",
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Value:   defaults.Parallelism,
				Usage:   "Number of families generated concurrently",
				Sources: cli.EnvVars(config.EnvParallelism),
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt with the SHA256 of every generated file",
			},
			&cli.StringFlag{
				Name:  "project",
				Value: defaults.ProjectName,
				Usage: "Project name in the generated file banner",
			},
			&cli.StringSliceFlag{
				Name:  "namespace",
				Usage: "C++ namespace wrapping the tables, outermost first (can be repeated; default: clblast, database)",
			},
			&cli.StringFlag{
				Name:  "include-prefix",
				Value: defaults.IncludePrefix,
				Usage: "Include path prefix of the generated headers",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the run summary to a file, '-' for stdout, or a ConfigMap URI (cm://namespace/name)",
			},
			formatFlag(),
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to this file after each run",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Regenerate whenever the database file changes (local files only)",
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			precisions := cmd.StringSlice("precision")
			if err := checkPrecisions(precisions); err != nil {
				return err
			}

			opts := []config.Option{
				config.WithPrecisions(precisions),
				config.WithVersion(version),
				config.WithFamilies(cmd.StringSlice("family")),
				config.WithParallelism(cmd.Int("parallel")),
				config.WithIncludeChecksums(cmd.Bool("checksums")),
				config.WithProjectName(cmd.String("project")),
				config.WithIncludePrefix(cmd.String("include-prefix")),
			}
			if ns := cmd.StringSlice("namespace"); len(ns) > 0 {
				opts = append(opts, config.WithNamespaces(ns))
			}

			cfg := config.NewConfig(opts...)
			if err := cfg.Validate(); err != nil {
				return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid flags", err)
			}

			run := &generateRun{
				generator:   generator.New(generator.WithConfig(cfg)),
				database:    cmd.String("database"),
				output:      cmd.String("output"),
				kubeconfig:  cmd.String("kubeconfig"),
				families:    cfg.Families(),
				report:      cmd.String("report"),
				format:      outFormat,
				metricsFile: cmd.String("metrics-file"),
				cmd:         cmd,
			}

			if !cmd.Bool("watch") {
				return run.once(ctx)
			}
			return run.watch(ctx)
		},
	}
}

type generateRun struct {
	generator   *generator.Generator
	database    string
	output      string
	kubeconfig  string
	families    []string
	report      string
	format      serializer.Format
	metricsFile string
	cmd         *cli.Command
}

func (r *generateRun) once(ctx context.Context) error {
	defer r.writeMetrics()

	slog.Info("loading tuning database", "uri", r.database)

	db, err := serializer.Load[database.Database](ctx, r.database, r.kubeconfig)
	if err != nil {
		slog.Error("failed to load database", "error", err, "uri", r.database)
		return err
	}

	if err := r.checkFamilies(db); err != nil {
		return err
	}

	result, err := r.generator.Make(ctx, db, r.output)
	if err != nil {
		return err
	}

	if r.report == "" {
		fmt.Fprintf(outWriter(r.cmd), "Generated %d tables (%d from defaults) in %d files under %s\n",
			result.Tables, len(result.Fallbacks), len(result.Files), r.output)
		return nil
	}

	if r.report == serializer.StdoutURI {
		return serializer.NewWriter(r.format, outWriter(r.cmd)).Serialize(ctx, result)
	}

	w, err := serializer.NewFileWriterOrStdoutWithKubeconfig(r.format, r.report, r.kubeconfig)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			slog.Warn("failed to close report", "error", closeErr)
		}
	}()
	return w.Serialize(ctx, result)
}

// checkFamilies warns about family patterns matching nothing and fails when
// no pattern matches.
func (r *generateRun) checkFamilies(db *database.Database) error {
	if len(r.families) == 0 {
		return nil
	}

	all := grouper.Families(db.Sections)
	unmatched := unmatchedPatterns(r.families, all)
	for _, p := range unmatched {
		slog.Warn(unmatchedMessage(p, all))
	}

	if len(unmatched) == len(r.families) {
		msgs := make([]string, len(unmatched))
		for i, p := range unmatched {
			msgs[i] = unmatchedMessage(p, all)
		}
		return cnserrors.New(cnserrors.ErrCodeNotFound, strings.Join(msgs, "; "))
	}
	return nil
}

func (r *generateRun) watch(ctx context.Context) error {
	if r.database == serializer.StdoutURI || strings.Contains(r.database, "://") {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "--watch requires a local database file")
	}

	if err := r.once(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		slog.Error("initial generation failed, waiting for changes", "error", err)
	}

	return watch.New(r.database, watch.DefaultDebounce, r.once).Run(ctx)
}

func (r *generateRun) writeMetrics() {
	if r.metricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(r.metricsFile, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file", "path", r.metricsFile, "error", err)
	}
}
