// File: internal/analysis/security/security.go

// Package security is a static security lint for Python sources. It walks
// the AST and applies a fixed rule set covering the common dangerous-call
// and hardcoded-secret patterns; every hit is reported as-is, with no
// severity filtering or deduplication.
package security

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/pyast"
)

// Linter runs the security rule set against single files.
type Linter struct {
	parser *pyast.Parser
	rules  []callRule
}

// NewLinter creates a linter with the default rule configuration.
func NewLinter() *Linter {
	return &Linter{
		parser: pyast.NewParser(),
		rules:  defaultCallRules,
	}
}

// AnalyzeFile lints one file and returns its findings. Read and parse
// failures propagate; there is no per-rule error recovery.
func (l *Linter) AnalyzeFile(ctx context.Context, path string) ([]schemas.SecurityFinding, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Analyze(ctx, path, source)
}

// Analyze lints source, attributing findings to filename.
func (l *Linter) Analyze(ctx context.Context, filename string, source []byte) ([]schemas.SecurityFinding, error) {
	root, err := l.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	findings := []schemas.SecurityFinding{}
	report := func(rule ruleInfo, node *sitter.Node) {
		findings = append(findings, schemas.SecurityFinding{
			Severity:    rule.severity,
			IssueType:   rule.id,
			Filename:    filename,
			Line:        pyast.Line(node),
			Description: rule.description,
		})
	}

	for _, call := range pyast.Calls(root, source) {
		callee := calleeText(call, source)
		for _, rule := range l.rules {
			if rule.match(call, callee, source) {
				report(rule.ruleInfo, call.Node)
			}
		}
	}

	pyast.Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "assert_statement":
			report(ruleAssert, n)
		case "string":
			if text, ok := pyast.StringLiteral(n, source); ok && text == "0.0.0.0" {
				report(ruleBindAll, n)
			}
			return false
		case "assignment":
			if info, ok := hardcodedPassword(n, source); ok {
				report(info, n)
			}
		}
		return true
	})

	return findings, nil
}

// calleeText returns the full dotted text of a call's callee, e.g.
// "subprocess.check_output".
func calleeText(call pyast.Call, source []byte) string {
	fn := call.Node.ChildByFieldName("function")
	return pyast.Text(fn, source)
}

// hardcodedPassword flags assignments of a string literal to a name that
// looks secret-bearing.
func hardcodedPassword(n *sitter.Node, source []byte) (ruleInfo, bool) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return ruleInfo{}, false
	}
	if _, ok := pyast.StringLiteral(right, source); !ok {
		return ruleInfo{}, false
	}
	name := strings.ToLower(pyast.Text(left, source))
	for _, marker := range []string{"password", "passwd", "pwd", "secret", "token"} {
		if strings.Contains(name, marker) {
			return ruleHardcodedPassword, true
		}
	}
	return ruleInfo{}, false
}
