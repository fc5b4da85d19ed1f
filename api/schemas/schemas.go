package schemas

// -- Component Schemas --

// ComponentType classifies a source file by its role in the repository.
// The values are lowercase so they serialize cleanly into reports.
type ComponentType string

// Constants defining the recognized component types. Classification is
// first-match-wins: test, then api, then model, with module as the default.
const (
	ComponentTest   ComponentType = "test"   // A test file.
	ComponentAPI    ComponentType = "api"    // A file importing a web framework.
	ComponentModel  ComponentType = "model"  // A data-model file.
	ComponentModule ComponentType = "module" // Anything else.
)

// Severity represents the severity level of a security finding.
type Severity string

// Constants defining the standard severity levels for findings.
const (
	SeverityHigh   Severity = "high"   // Represents a high-severity issue.
	SeverityMedium Severity = "medium" // Represents a medium-severity issue.
	SeverityLow    Severity = "low"    // Represents a low-severity issue.
)

// SecurityFinding is one normalized issue reported by the security pass.
// The shape is a direct passthrough of the linter result: no severity
// filtering or deduplication is applied upstream.
type SecurityFinding struct {
	Severity    Severity `json:"severity"`
	IssueType   string   `json:"issue_type"` // Rule identifier, e.g. "B307".
	Filename    string   `json:"filename"`
	Line        int      `json:"line"`
	Description string   `json:"description"`
}

// PerformanceMetric is the per-file performance snapshot. Complexity is the
// sum of cyclomatic complexity across every function in the file, and the
// maintainability index is on a 0-100 scale where higher is better. The
// three operation counts are syntactic call-site matches against fixed name
// lists; they are heuristic, not type-aware.
type PerformanceMetric struct {
	Complexity      int     `json:"complexity"`
	Maintainability float64 `json:"maintainability"`
	IOOperations    int     `json:"io_operations"`
	DBOperations    int     `json:"db_operations"`
	NetworkCalls    int     `json:"network_calls"`
}

// ContainerLayer describes one layer of the repository's built image: the
// command that created it, its size in bytes, and any package names
// extracted from pip/apt install commands in that layer.
type ContainerLayer struct {
	Command      string   `json:"command"`
	Size         int64    `json:"size"`
	Dependencies []string `json:"dependencies"`
}

// Component is the aggregated record for one analyzed source file, keyed by
// file stem. Two files with the same stem in different directories collide
// and the later one wins; callers should treat the map as best-effort.
//
// APIEndpoints and ExternalURLs are declared for report compatibility but
// are not populated by the current analysis passes.
type Component struct {
	Name            string            `json:"name"`
	Type            ComponentType     `json:"type"`
	Path            string            `json:"path"`
	Performance     PerformanceMetric `json:"performance"`
	SecurityIssues  []SecurityFinding `json:"security_issues"`
	TestCoverage    float64           `json:"test_coverage"`
	ContainerLayers []ContainerLayer  `json:"docker_layers"`
	Dependencies    []string          `json:"dependencies"`
	APIEndpoints    []string          `json:"api_endpoints"`
	ExternalURLs    []string          `json:"external_urls"`
}

// NewComponent returns a Component with every collection field initialized,
// so that reports serialize empty lists rather than nulls.
func NewComponent(name string, typ ComponentType, path string) *Component {
	return &Component{
		Name:            name,
		Type:            typ,
		Path:            path,
		SecurityIssues:  []SecurityFinding{},
		ContainerLayers: []ContainerLayer{},
		Dependencies:    []string{},
		APIEndpoints:    []string{},
		ExternalURLs:    []string{},
	}
}

// ResultEnvelope is the top-level structure handed to reporters. Diagram is
// only populated for diagram formats; the JSON reporter serializes the
// component map as {"components": {...}}.
type ResultEnvelope struct {
	RunID      string                `json:"-"`
	Components map[string]*Component `json:"components"`
	Diagram    string                `json:"-"`
}
