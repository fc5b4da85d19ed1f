// File: internal/analysis/coverage/coverage.go

// Package coverage measures per-file test coverage by delegating to the
// repository's own test runner (pytest under coverage.py) and reading back
// the JSON coverage report. Unlike the per-file passes, this analyzes the
// whole repository in one shot and returns an independent mapping.
package coverage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/internal/config"
)

// Runner executes the test suite under coverage for one repository.
type Runner struct {
	cfg    config.CoverageConfig
	logger *zap.Logger
}

// NewRunner creates a coverage runner.
func NewRunner(cfg config.CoverageConfig, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger.Named("coverage")}
}

// Analyze runs the repository's test suite under coverage and returns the
// percentage covered per file, keyed by path relative to the repository
// root. A missing Python interpreter or pytest module is not an error: the
// pass silently degenerates to an empty result, matching the optional
// nature of the test-runner dependency.
func (r *Runner) Analyze(ctx context.Context, repoPath string) (map[string]float64, error) {
	python, ok := r.findRunner(ctx)
	if !ok {
		return map[string]float64{}, nil
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	reportDir, err := os.MkdirTemp("", "archlens-cov-")
	if err != nil {
		return nil, fmt.Errorf("failed to create coverage report directory: %w", err)
	}
	defer os.RemoveAll(reportDir)
	reportPath := filepath.Join(reportDir, "coverage.json")

	cmd := exec.CommandContext(ctx, python,
		"-m", "pytest",
		"--rootdir", repoPath,
		"--cov=.",
		"--cov-report=json:"+reportPath,
		"-q",
	)
	cmd.Dir = repoPath

	// A non-zero exit here usually means failing tests, which still produce
	// a usable coverage report; only log it.
	if out, err := cmd.CombinedOutput(); err != nil {
		r.logger.Debug("Test runner exited non-zero",
			zap.Error(err),
			zap.ByteString("output", out),
		)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		// No report was produced (e.g., pytest-cov missing). Degenerate to
		// whatever was measured, which is nothing.
		r.logger.Debug("No coverage report produced", zap.Error(err))
		return map[string]float64{}, nil
	}

	return ParseReport(data)
}

// findRunner locates a Python interpreter with pytest importable. The
// configured binary is tried first, then plain "python".
func (r *Runner) findRunner(ctx context.Context) (string, bool) {
	candidates := []string{r.cfg.PythonBinary, "python"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		if err := exec.CommandContext(ctx, path, "-m", "pytest", "--version").Run(); err != nil {
			r.logger.Debug("pytest not importable", zap.String("python", path))
			continue
		}
		return path, true
	}
	r.logger.Debug("No usable test runner found; skipping coverage")
	return "", false
}

// report mirrors the parts of the coverage.py JSON report format we consume.
type report struct {
	Files map[string]struct {
		Summary struct {
			CoveredLines int `json:"covered_lines"`
			MissingLines int `json:"missing_lines"`
		} `json:"summary"`
	} `json:"files"`
}

// ParseReport extracts per-file coverage percentages from a coverage.py
// JSON report. Percentage covered = covered / (covered + missing) * 100,
// or 0 when no lines were measured.
func ParseReport(data []byte) (map[string]float64, error) {
	var rep report
	if err := jsoniter.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse coverage report: %w", err)
	}

	result := make(map[string]float64, len(rep.Files))
	for path, file := range rep.Files {
		total := file.Summary.CoveredLines + file.Summary.MissingLines
		pct := 0.0
		if total > 0 {
			pct = float64(file.Summary.CoveredLines) / float64(total) * 100
		}
		result[filepath.ToSlash(path)] = pct
	}
	return result, nil
}
