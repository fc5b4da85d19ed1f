// File: internal/analysis/deps/deps.go

// Package deps extracts module dependencies from import statements.
package deps

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/archlens-cli/internal/analysis/pyast"
)

// Extractor parses files and collects the top-level module names they
// import.
type Extractor struct {
	parser *pyast.Parser
}

// NewExtractor creates a dependency extractor.
func NewExtractor() *Extractor {
	return &Extractor{parser: pyast.NewParser()}
}

// ExtractFile reads and parses a file, returning its deduplicated, sorted
// dependency set. A parse failure propagates: there is no partial result for
// invalid source.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.Extract(ctx, source)
}

// Extract returns the top-level module names imported by source. For an
// absolute import the first dot-segment is taken; for a from-import the
// module's first segment is taken when present (a bare "from . import x"
// contributes nothing).
func (e *Extractor) Extract(ctx context.Context, source []byte) ([]string, error) {
	root, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	pyast.Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					addTopLevel(seen, pyast.Text(child, source))
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						addTopLevel(seen, pyast.Text(name, source))
					}
				}
			}
		case "import_from_statement":
			module := n.ChildByFieldName("module_name")
			if module == nil {
				return true
			}
			switch module.Type() {
			case "dotted_name":
				addTopLevel(seen, pyast.Text(module, source))
			case "relative_import":
				// Only the dotted part matters; bare dots carry no name.
				for i := 0; i < int(module.NamedChildCount()); i++ {
					if child := module.NamedChild(i); child.Type() == "dotted_name" {
						addTopLevel(seen, pyast.Text(child, source))
					}
				}
			}
		}
		return true
	})

	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

func addTopLevel(seen map[string]struct{}, dotted string) {
	if top, _, _ := strings.Cut(dotted, "."); top != "" {
		seen[top] = struct{}{}
	}
}
