// File: internal/analyzer/analyzer.go

// Package analyzer wires the per-file analysis passes together and owns the
// repository-wide component map for one run. The map lives for exactly one
// analysis; nothing persists between runs.
package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/container"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/coverage"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/deps"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/perf"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/security"
	"github.com/xkilldash9x/archlens-cli/internal/config"
	"github.com/xkilldash9x/archlens-cli/internal/render"
	"github.com/xkilldash9x/archlens-cli/internal/source"
)

// Analyzer runs the analysis passes over one resolved repository.
type Analyzer struct {
	repo       *source.Repository
	cfg        *config.Config
	logger     *zap.Logger
	runID      string
	components map[string]*schemas.Component

	deps      *deps.Extractor
	perf      *perf.Analyzer
	linter    *security.Linter
	coverage  *coverage.Runner
	container *container.Inspector
}

// New resolves the target and prepares every analysis pass. Construction
// fails when no target was given or a remote clone fails; an unreachable
// container daemon is recorded, not fatal.
func New(ctx context.Context, opts source.Options, cfg *config.Config, logger *zap.Logger) (*Analyzer, error) {
	repo, err := source.Resolve(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		repo:       repo,
		cfg:        cfg,
		logger:     logger.Named("analyzer"),
		runID:      uuid.New().String(),
		components: make(map[string]*schemas.Component),
		deps:       deps.NewExtractor(),
		perf:       perf.NewAnalyzer(),
		linter:     security.NewLinter(),
		coverage:   coverage.NewRunner(cfg.Coverage, logger),
		container:  container.NewInspector(ctx, cfg.Container, logger),
	}, nil
}

// RunID identifies this analysis run.
func (a *Analyzer) RunID() string { return a.runID }

// RepoPath is the resolved repository root.
func (a *Analyzer) RepoPath() string { return a.repo.Path }

// Close releases the container connection and any temporary clone.
func (a *Analyzer) Close() error {
	if a.container != nil {
		a.container.Close()
	}
	return a.repo.Close()
}

// Components returns the component map built by Analyze.
func (a *Analyzer) Components() map[string]*schemas.Component {
	return a.components
}

// Analyze walks the repository and builds one component record per source
// file, keyed by file stem. Each file goes through classification,
// dependency extraction, the performance pass and the security pass; any
// failure aborts the whole run, so a single bad file stops analysis.
func (a *Analyzer) Analyze(ctx context.Context) error {
	files, err := a.discoverFiles()
	if err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}
	a.logger.Info("Analyzing repository",
		zap.String("run_id", a.runID),
		zap.String("path", a.repo.Path),
		zap.Int("files", len(files)),
	)

	for _, file := range files {
		record, err := a.analyzeFile(ctx, file)
		if err != nil {
			return fmt.Errorf("analysis of %s failed: %w", file, err)
		}
		// Records key on the file stem; a duplicate stem in another
		// directory overwrites the earlier record.
		a.components[record.Name] = record
	}
	return nil
}

// analyzeFile produces the aggregated record for one file.
func (a *Analyzer) analyzeFile(ctx context.Context, path string) (*schemas.Component, error) {
	content, kind, err := a.classifyFile(path)
	if err != nil {
		return nil, err
	}

	record := schemas.NewComponent(stem(path), kind, path)

	record.Dependencies, err = a.deps.Extract(ctx, content)
	if err != nil {
		return nil, err
	}
	record.Performance, err = a.perf.Analyze(ctx, content)
	if err != nil {
		return nil, err
	}
	record.SecurityIssues, err = a.linter.Analyze(ctx, path, content)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GenerateMermaid renders the component map as a Mermaid diagram, running
// the analysis first when it has not happened yet.
func (a *Analyzer) GenerateMermaid(ctx context.Context) (string, error) {
	if len(a.components) == 0 {
		if err := a.Analyze(ctx); err != nil {
			return "", err
		}
	}
	return render.Mermaid(a.components), nil
}

// AnalyzeCoverage runs the repository's test suite under coverage and
// returns percentage covered per file, relative to the repository root.
// The result is an independent mapping; it is not merged into the
// per-component records.
func (a *Analyzer) AnalyzeCoverage(ctx context.Context) (map[string]float64, error) {
	return a.coverage.Analyze(ctx, a.repo.Path)
}

// AnalyzeContainer builds the repository image and reports its layers. A
// repository without a container descriptor yields an empty list.
func (a *Analyzer) AnalyzeContainer(ctx context.Context) ([]schemas.ContainerLayer, error) {
	return a.container.Analyze(ctx, a.repo.Path)
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
