// File: internal/analysis/perf/perf_test.go
package perf

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Complexity(t *testing.T) {
	a := NewAnalyzer()
	ctx := context.Background()

	t.Run("straight-line function scores 1", func(t *testing.T) {
		metric, err := a.Analyze(ctx, []byte("def f():\n    return 1\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, metric.Complexity)
	})

	t.Run("each decision point adds one", func(t *testing.T) {
		source := []byte(strings.Join([]string{
			"def f(x):",
			"    if x:",
			"        return 1",
			"    if x and x > 1:",
			"        return 2",
			"    for i in x:",
			"        pass",
			"    return 0",
			"",
		}, "\n"))
		metric, err := a.Analyze(ctx, source)
		require.NoError(t, err)
		// 1 base + two ifs + one boolean operator + one for loop.
		assert.Equal(t, 5, metric.Complexity)
	})

	t.Run("complexity sums across functions", func(t *testing.T) {
		source := []byte(strings.Join([]string{
			"def f(x):",
			"    if x:",
			"        return 1",
			"    return 0",
			"",
			"def g(y):",
			"    while y:",
			"        y -= 1",
			"    return y",
			"",
		}, "\n"))
		metric, err := a.Analyze(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 4, metric.Complexity)
	})

	t.Run("module-level branches do not count", func(t *testing.T) {
		metric, err := a.Analyze(ctx, []byte("if True:\n    x = 1\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, metric.Complexity, "complexity only sums function scores")
	})
}

func TestAnalyze_CallSiteCounts(t *testing.T) {
	a := NewAnalyzer()
	ctx := context.Background()

	source := []byte(strings.Join([]string{
		"def handler(conn, session):",
		"    f = open('data.txt')",
		"    conn.execute('SELECT 1')",
		"    conn.commit()",
		"    r = session.get('https://example.com')",
		"    session.post('https://example.com', data=r)",
		"    return f",
		"",
	}, "\n"))

	metric, err := a.Analyze(ctx, source)
	require.NoError(t, err)

	assert.Equal(t, 1, metric.IOOperations, "bare open() call")
	assert.Equal(t, 2, metric.DBOperations, "execute and commit methods")
	assert.Equal(t, 2, metric.NetworkCalls, "get and post methods")
}

func TestAnalyze_CallSiteCountsAreHeuristic(t *testing.T) {
	a := NewAnalyzer()

	// Any method named get counts as a network call; a method whose name
	// contains both a DB and a network substring lands in both buckets.
	source := []byte("def f(d, s):\n    d.get('key')\n    s.request_query()\n")
	metric, err := a.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, metric.NetworkCalls)
	assert.Equal(t, 1, metric.DBOperations)
}

func TestAnalyze_Maintainability(t *testing.T) {
	a := NewAnalyzer()
	ctx := context.Background()

	t.Run("empty file rates 100", func(t *testing.T) {
		metric, err := a.Analyze(ctx, []byte(""))
		require.NoError(t, err)
		assert.Equal(t, 100.0, metric.Maintainability)
	})

	t.Run("index stays on the 0-100 scale", func(t *testing.T) {
		source := []byte(strings.Join([]string{
			"def f(x, y):",
			"    if x and y:",
			"        return x + y * 2",
			"    return x - y",
			"",
		}, "\n"))
		metric, err := a.Analyze(ctx, source)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, metric.Maintainability, 0.0)
		assert.LessOrEqual(t, metric.Maintainability, 100.0)
	})

	t.Run("larger, branchier files rate lower", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("def f(x):\n")
		for i := 0; i < 40; i++ {
			b.WriteString("    if x > ")
			b.WriteString(strings.Repeat("9", 3))
			b.WriteString(":\n        x = x - 1\n")
		}
		b.WriteString("    return x\n")

		small, err := a.Analyze(ctx, []byte("def f(x):\n    return x\n"))
		require.NoError(t, err)
		large, err := a.Analyze(ctx, []byte(b.String()))
		require.NoError(t, err)
		assert.Less(t, large.Maintainability, small.Maintainability)
	})
}

func TestAnalyze_InvalidSource(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.Analyze(context.Background(), []byte("def (broken\n"))
	assert.Error(t, err)
}
