// File: internal/analysis/perf/perf.go

// Package perf computes the per-file performance snapshot: summed cyclomatic
// complexity, a radon-style maintainability index, and heuristic counts of
// IO, database and network call sites.
package perf

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/pyast"
)

// Analyzer computes performance metrics for Python files.
type Analyzer struct {
	parser *pyast.Parser
}

// NewAnalyzer creates a performance analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{parser: pyast.NewParser()}
}

// functionTypes are the nodes treated as function scopes for complexity.
var functionTypes = map[string]bool{
	"function_definition": true,
	"lambda":              true,
}

// decisionTypes are the nodes that add one point of cyclomatic complexity.
var decisionTypes = map[string]bool{
	"if_statement":             true,
	"elif_clause":              true,
	"for_statement":            true,
	"while_statement":          true,
	"except_clause":            true,
	"boolean_operator":         true, // and, or
	"conditional_expression":   true, // ternary
	"case_clause":              true, // match statement
	"for_in_clause":            true, // comprehension loop
	"if_clause":                true, // comprehension condition
}

// Call-site name lists. IO matches bare identifier calls by substring; DB and
// network match the trailing attribute of method calls by substring. These
// are deliberately syntactic: any method named get counts as a network call.
var (
	ioNames      = []string{"open", "read", "write"}
	dbNames      = []string{"execute", "query", "commit"}
	networkNames = []string{"get", "post", "request"}
)

// AnalyzeFile reads, parses and measures one file. Parse failures propagate.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (schemas.PerformanceMetric, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return schemas.PerformanceMetric{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return a.Analyze(ctx, source)
}

// Analyze measures source and returns its performance snapshot.
func (a *Analyzer) Analyze(ctx context.Context, source []byte) (schemas.PerformanceMetric, error) {
	root, err := a.parser.Parse(ctx, source)
	if err != nil {
		return schemas.PerformanceMetric{}, err
	}

	complexity := totalComplexity(root)
	metric := schemas.PerformanceMetric{
		Complexity:      complexity,
		Maintainability: maintainabilityIndex(source, root, complexity),
	}

	for _, call := range pyast.Calls(root, source) {
		switch {
		case call.Name != "" && containsAny(call.Name, ioNames):
			metric.IOOperations++
		case call.Attr != "" && containsAny(call.Attr, dbNames):
			metric.DBOperations++
		}
		// Network matching is independent of the DB bucket in name space but
		// an attribute can only land in one bucket per list order above, so
		// check it separately against the attribute name.
		if call.Attr != "" && containsAny(call.Attr, networkNames) {
			metric.NetworkCalls++
		}
	}

	return metric, nil
}

// totalComplexity sums per-function cyclomatic complexity across the file.
// Each function starts at 1; module-level statements outside any function do
// not contribute, matching per-function complexity visitors.
func totalComplexity(root *sitter.Node) int {
	total := 0
	for _, fn := range findFunctions(root) {
		total += functionComplexity(fn)
	}
	return total
}

// findFunctions collects every function scope in the file, including nested
// ones; each is measured independently.
func findFunctions(root *sitter.Node) []*sitter.Node {
	var fns []*sitter.Node
	pyast.Walk(root, func(n *sitter.Node) bool {
		if functionTypes[n.Type()] {
			fns = append(fns, n)
		}
		return true
	})
	return fns
}

// functionComplexity counts decision points in a function body, without
// descending into nested functions (they are measured on their own).
func functionComplexity(fn *sitter.Node) int {
	complexity := 1
	pyast.Walk(fn, func(n *sitter.Node) bool {
		if n != fn && functionTypes[n.Type()] {
			return false
		}
		if decisionTypes[n.Type()] {
			complexity++
		}
		return true
	})
	return complexity
}

// maintainabilityIndex computes the radon-style maintainability index on a
// 0-100 scale: max(0, (171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(SLOC)) * 100/171)
// where V is the Halstead volume of the file.
func maintainabilityIndex(source []byte, root *sitter.Node, complexity int) float64 {
	volume := halsteadVolume(source, root)
	sloc := countSLOC(source)
	if sloc == 0 {
		return 100
	}
	if volume < 1 {
		volume = 1
	}

	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(complexity) - 16.2*math.Log(float64(sloc))
	mi = mi * 100 / 171
	if mi < 0 {
		return 0
	}
	if mi > 100 {
		return 100
	}
	return mi
}

// operatorTypes are the leaf node types counted as Halstead operators.
var operatorTypes = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "//": true, "%": true,
	"**": true, "@": true, "==": true, "!=": true, "<": true, ">": true,
	"<=": true, ">=": true, "and": true, "or": true, "not": true,
	"in": true, "is": true, "=": true, "+=": true, "-=": true, "*=": true,
	"/=": true, "//=": true, "%=": true, "**=": true, "&": true, "|": true,
	"^": true, "<<": true, ">>": true, "~": true, ":=": true,
}

// operandTypes are the leaf node types counted as Halstead operands.
var operandTypes = map[string]bool{
	"identifier": true,
	"integer":    true,
	"float":      true,
	"string":     true,
	"true":       true,
	"false":      true,
	"none":       true,
}

// halsteadVolume approximates Halstead volume V = N * log2(n) from operator
// and operand token counts.
func halsteadVolume(source []byte, root *sitter.Node) float64 {
	distinctOperators := map[string]struct{}{}
	distinctOperands := map[string]struct{}{}
	totalOperators, totalOperands := 0, 0

	pyast.Walk(root, func(n *sitter.Node) bool {
		t := n.Type()
		switch {
		case operandTypes[t]:
			distinctOperands[pyast.Text(n, source)] = struct{}{}
			totalOperands++
			// Strings have child nodes for their quotes; stop here.
			return false
		case n.ChildCount() == 0 && operatorTypes[t]:
			distinctOperators[t] = struct{}{}
			totalOperators++
		}
		return true
	})

	n := len(distinctOperators) + len(distinctOperands)
	total := totalOperators + totalOperands
	if n == 0 || total == 0 {
		return 0
	}
	return float64(total) * math.Log2(float64(n))
}

// countSLOC counts source lines, skipping blanks and comment-only lines.
func countSLOC(source []byte) int {
	count := 0
	for _, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		count++
	}
	return count
}

func containsAny(name string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(name, needle) {
			return true
		}
	}
	return false
}
