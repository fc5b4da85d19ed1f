// File: internal/render/mermaid.go

// Package render turns the component map into diagram text.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
)

// Complexity thresholds for node styling. Strictly above high is "high",
// strictly above medium (and at or below high) is "medium", the rest "low".
const (
	complexityHigh   = 50
	complexityMedium = 20
)

// styleClass is one Mermaid classDef, keyed by complexity band.
type styleClass struct {
	name string
	def  string
}

// styleClasses are emitted as the diagram header, in this order.
var styleClasses = []styleClass{
	{"high", "fill:#f44336,color:white"},
	{"medium", "fill:#fb8c00,color:white"},
	{"low", "fill:#81c784,color:black"},
}

// layer groups components by a case-insensitive name-substring match.
type layer struct {
	name    string
	markers []string
}

// layers are the fixed diagram groups. A component matching none of them is
// omitted from the diagram body, though its edges still render.
var layers = []layer{
	{"Client", []string{"client"}},
	{"API", []string{"api"}},
	{"Core", []string{"core", "type", "base"}},
}

var nonWordRe = regexp.MustCompile(`\W+`)

// NodeID normalizes a component name into a Mermaid node identifier by
// replacing every run of non-word characters with an underscore. Collisions
// from the normalization are not checked.
func NodeID(name string) string {
	return nonWordRe.ReplaceAllString(name, "_")
}

// Mermaid renders the component map as a Mermaid graph description. Output
// is deterministic: layers keep their fixed order and components sort by
// name within each.
func Mermaid(components map[string]*schemas.Component) string {
	lines := []string{"graph TD", "    %% Style definitions"}

	for _, style := range styleClasses {
		lines = append(lines, fmt.Sprintf("    classDef %s %s", style.name, style.def))
	}

	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, l := range layers {
		var members []*schemas.Component
		for _, name := range names {
			if matchesLayer(components[name].Name, l.markers) {
				members = append(members, components[name])
			}
		}
		if len(members) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("    subgraph %s Layer", l.name))
		for _, comp := range members {
			lines = append(lines, fmt.Sprintf("        %s[%s<br/>CC:%d]%s",
				NodeID(comp.Name), comp.Name, comp.Performance.Complexity,
				styleFor(comp.Performance.Complexity)))
		}
		lines = append(lines, "    end\n")
	}

	// Edges are emitted only when the dependency name is itself a component
	// key; third-party imports never produce edges.
	for _, name := range names {
		nodeID := NodeID(name)
		for _, dep := range components[name].Dependencies {
			if _, ok := components[dep]; !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("    %s --> %s", nodeID, NodeID(dep)))
		}
	}

	return strings.Join(lines, "\n")
}

func matchesLayer(name string, markers []string) bool {
	lowered := strings.ToLower(name)
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func styleFor(complexity int) string {
	switch {
	case complexity > complexityHigh:
		return ":::high"
	case complexity > complexityMedium:
		return ":::medium"
	default:
		return ":::low"
	}
}
