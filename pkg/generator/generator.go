package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/defaults"
	"github.com/NVIDIA/tuning-tables/pkg/emitter"
	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
	"github.com/NVIDIA/tuning-tables/pkg/grouper"
	"github.com/NVIDIA/tuning-tables/pkg/table"
)

const (
	filePerm         = defaults.FilePermissions
	dirPerm          = defaults.DirPermissions
	checksumFileName = defaults.ChecksumFileName
)

// Generator writes the tuning tables of a Database to an output directory.
type Generator struct {
	cfg *config.Config

	builder  *table.Builder
	emitter  *emitter.Emitter
	dirs     *DirectoryManager
	ctxCheck *ContextChecker
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig sets the generator configuration.
func WithConfig(cfg *config.Config) Option {
	return func(g *Generator) {
		if cfg != nil {
			g.cfg = cfg
		}
	}
}

// New returns a Generator. Without WithConfig defaults are used.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.cfg == nil {
		g.cfg = config.NewConfig()
	}
	g.builder = table.NewBuilder(g.cfg)
	g.emitter = emitter.New(g.cfg)
	g.dirs = NewDirectoryManager()
	g.ctxCheck = NewContextChecker()
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() *config.Config { return g.cfg }

// Make writes, for every family of db, one table file per precision plus the
// family source and header files under outputDir/<family>/. Precisions are
// the union over the whole database and are resolved before anything is
// written. A configured precision filter replaces that union. Files already
// written stay on disk when a later unit fails.
func (g *Generator) Make(ctx context.Context, db *database.Database, outputDir string) (result *Result, err error) {
	start := time.Now()
	defer func() {
		generateDuration.Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			generateTotal.WithLabelValues("success").Inc()
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			generateTotal.WithLabelValues("canceled").Inc()
		default:
			generateTotal.WithLabelValues("error").Inc()
		}
	}()

	if db == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "database is required")
	}
	if outputDir == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "output directory is required")
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid generator configuration", err)
	}

	precisions, err := resolvePrecisions(grouper.Precisions(db.Sections))
	if err != nil {
		return nil, err
	}
	if codes := g.cfg.Precisions(); len(codes) > 0 {
		slices.Sort(codes)
		if precisions, err = resolvePrecisions(slices.Compact(codes)); err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid precision filter", err)
		}
	}

	records := database.FilterFamilies(db.Sections, g.cfg.Families())
	families := grouper.Families(records)

	result = NewResult()
	result.Version = g.cfg.Version()
	result.Families = families

	slog.Info("generating tuning tables",
		"run", result.RunID,
		"families", len(families),
		"precisions", len(precisions),
		"output", outputDir,
		"parallelism", g.cfg.Parallelism())

	byFamily := make(map[string][]database.Record, len(families))
	for _, r := range records {
		byFamily[r.Family] = append(byFamily[r.Family], r)
	}

	writer := NewFileWriter(result)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Parallelism())

	for _, family := range families {
		eg.Go(func() error {
			return g.makeFamily(egCtx, writer, result, byFamily[family], family, precisions, outputDir)
		})
	}

	if err := eg.Wait(); err != nil {
		slog.Error("generation failed", "run", result.RunID, "error", err)
		return nil, err
	}

	if g.cfg.IncludeChecksums() {
		if err := g.writeChecksums(writer, result, outputDir); err != nil {
			return nil, err
		}
	}

	result.MarkSuccess()

	slog.Info("tuning tables generated",
		"run", result.RunID,
		"files", len(result.Files),
		"tables", result.Tables,
		"fallbacks", len(result.Fallbacks),
		"size_bytes", result.Size,
		"duration", result.Duration)

	return result, nil
}

func (g *Generator) makeFamily(ctx context.Context, writer *FileWriter, result *Result, records []database.Record, family string, precisions []database.Precision, outputDir string) error {
	if err := g.ctxCheck.Check(ctx); err != nil {
		return err
	}

	if err := g.dirs.CreateDirectories([]string{filepath.Join(outputDir, family)}, dirPerm); err != nil {
		return err
	}

	slog.Debug("generating family", "family", family, "records", len(records))

	for _, p := range precisions {
		if err := g.ctxCheck.Check(ctx); err != nil {
			return err
		}

		tbl, err := g.builder.Build(records, family, p)
		if err != nil {
			return err
		}

		content, err := g.emitter.RenderPrecision(tbl)
		if err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to render table", err)
		}

		if err := writer.WriteFileString(outPath(outputDir, g.emitter.TableFile(family, p)), content, filePerm); err != nil {
			return err
		}

		result.AddTable(family+":"+p.Code(), tbl.Fallback)
		tablesGenerated.WithLabelValues(strconv.FormatBool(tbl.Fallback)).Inc()
	}

	sources, err := g.emitter.RenderSources(family, precisions)
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to render family sources", err)
	}
	if err := writer.WriteFileString(outPath(outputDir, g.emitter.SourcesFile(family)), sources, filePerm); err != nil {
		return err
	}

	declarations, err := g.emitter.RenderDeclarations(family, precisions)
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to render family header", err)
	}
	return writer.WriteFileString(outPath(outputDir, g.emitter.DeclarationsFile(family)), declarations, filePerm)
}

func (g *Generator) writeChecksums(writer *FileWriter, result *Result, outputDir string) error {
	content, err := NewChecksumGenerator(result).Generate(outputDir, checksumFileName)
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to compute checksums", err)
	}
	return writer.WriteFileString(filepath.Join(outputDir, checksumFileName), content, filePerm)
}

func resolvePrecisions(codes []string) ([]database.Precision, error) {
	precisions := make([]database.Precision, 0, len(codes))
	for _, code := range codes {
		p, err := database.ParsePrecision(code)
		if err != nil {
			return nil, fmt.Errorf("resolve precisions: %w", err)
		}
		precisions = append(precisions, p)
	}
	return precisions, nil
}

func outPath(outputDir, rel string) string {
	return filepath.Join(outputDir, filepath.FromSlash(rel))
}
