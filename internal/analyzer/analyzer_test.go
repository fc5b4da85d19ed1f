// File: internal/analyzer/analyzer_test.go
package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/config"
	"github.com/xkilldash9x/archlens-cli/internal/source"
)

// writeRepo materializes a fake repository from relative path -> content.
func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newTestAnalyzer(t *testing.T, dir string) *Analyzer {
	t.Helper()
	a, err := New(context.Background(), source.Options{LocalPath: dir}, config.Get(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_NoTarget(t *testing.T) {
	_, err := New(context.Background(), source.Options{}, config.Get(), zap.NewNop())
	assert.ErrorIs(t, err, source.ErrNoTarget)
}

func TestAnalyze(t *testing.T) {
	dir := writeRepo(t, map[string]string{
		"client.py":       "import helpers\n\ndef fetch():\n    f = open('x')\n    return f\n",
		"api.py":          "import flask\n\napp = flask.Flask(__name__)\n",
		"user_model.py":   "class User:\n    pass\n",
		"helpers.py":      "def helper():\n    return 1\n",
		"test_client.py":  "def test_fetch():\n    assert True\n",
		"util_testing.py": "x = 1\n",
	})

	a := newTestAnalyzer(t, dir)
	require.NoError(t, a.Analyze(context.Background()))
	components := a.Components()

	t.Run("test files are excluded", func(t *testing.T) {
		assert.NotContains(t, components, "test_client")
		assert.NotContains(t, components, "util_testing")
		assert.Len(t, components, 4)
	})

	t.Run("classification", func(t *testing.T) {
		assert.Equal(t, schemas.ComponentModule, components["client"].Type)
		assert.Equal(t, schemas.ComponentAPI, components["api"].Type)
		assert.Equal(t, schemas.ComponentModel, components["user_model"].Type)
		assert.Equal(t, schemas.ComponentModule, components["helpers"].Type)
	})

	t.Run("dependencies recorded per file", func(t *testing.T) {
		assert.Equal(t, []string{"helpers"}, components["client"].Dependencies)
		assert.Equal(t, []string{"flask"}, components["api"].Dependencies)
	})

	t.Run("performance pass ran", func(t *testing.T) {
		assert.Equal(t, 1, components["client"].Performance.IOOperations)
		assert.Equal(t, 1, components["client"].Performance.Complexity)
	})

	t.Run("records key on file stem and carry the path", func(t *testing.T) {
		assert.Equal(t, "client", components["client"].Name)
		assert.Equal(t, filepath.Join(dir, "client.py"), components["client"].Path)
	})
}

func TestAnalyze_EmptyDirectory(t *testing.T) {
	a := newTestAnalyzer(t, t.TempDir())
	require.NoError(t, a.Analyze(context.Background()))
	assert.Empty(t, a.Components())

	diagram, err := a.GenerateMermaid(context.Background())
	require.NoError(t, err)

	want := strings.Join([]string{
		"graph TD",
		"    %% Style definitions",
		"    classDef high fill:#f44336,color:white",
		"    classDef medium fill:#fb8c00,color:white",
		"    classDef low fill:#81c784,color:black",
	}, "\n")
	assert.Equal(t, want, diagram)
}

func TestAnalyze_Deterministic(t *testing.T) {
	files := map[string]string{
		"api.py":    "import core\nimport flask\n",
		"core.py":   "def run():\n    if True:\n        return 1\n",
		"client.py": "import api\nimport core\n",
	}
	dir := writeRepo(t, files)

	first := newTestAnalyzer(t, dir)
	require.NoError(t, first.Analyze(context.Background()))
	second := newTestAnalyzer(t, dir)
	require.NoError(t, second.Analyze(context.Background()))

	if diff := cmp.Diff(first.Components(), second.Components()); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
}

func TestAnalyze_StemCollision(t *testing.T) {
	dir := writeRepo(t, map[string]string{
		"a/dup.py": "import os\n",
		"b/dup.py": "import sys\n",
	})

	a := newTestAnalyzer(t, dir)
	require.NoError(t, a.Analyze(context.Background()))

	// Both files share the stem "dup"; the later one in walk order wins.
	require.Len(t, a.Components(), 1)
	assert.Equal(t, []string{"sys"}, a.Components()["dup"].Dependencies)
}

func TestAnalyze_InvalidFileAbortsRun(t *testing.T) {
	dir := writeRepo(t, map[string]string{
		"good.py":   "x = 1\n",
		"broken.py": "def (nope\n",
	})

	a := newTestAnalyzer(t, dir)
	err := a.Analyze(context.Background())
	require.Error(t, err, "one bad file stops analysis of the whole run")
	assert.Contains(t, err.Error(), "broken.py")
}

func TestGenerateMermaid_TriggersAnalyze(t *testing.T) {
	dir := writeRepo(t, map[string]string{
		"core.py":   "def run():\n    return 1\n",
		"client.py": "import core\n",
	})

	a := newTestAnalyzer(t, dir)
	diagram, err := a.GenerateMermaid(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, a.Components(), "generate must run the analysis when it has not happened")
	assert.Contains(t, diagram, "client[client<br/>CC:0]:::low")
	assert.Contains(t, diagram, "    client --> core")
}

func TestAnalyzeCoverage_IndependentMapping(t *testing.T) {
	dir := writeRepo(t, map[string]string{"core.py": "x = 1\n"})
	a := newTestAnalyzer(t, dir)
	require.NoError(t, a.Analyze(context.Background()))

	// Whatever the environment provides, the coverage pass must not touch
	// the per-component records.
	_, err := a.AnalyzeCoverage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Components()["core"].TestCoverage)
}
