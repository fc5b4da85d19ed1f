// File: internal/analysis/security/definitions.go
package security

import (
	"strings"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/analysis/pyast"
)

// ruleInfo carries the reportable identity of a rule. The ids follow the
// bandit numbering so findings line up with what Python tooling reports for
// the same patterns.
type ruleInfo struct {
	id          string
	severity    schemas.Severity
	description string
}

// callRule matches one call expression. callee is the full dotted callee
// text; call carries the bare-name/attribute breakdown and keyword access.
type callRule struct {
	ruleInfo
	match func(call pyast.Call, callee string, source []byte) bool
}

// Statement-level rules applied outside the call walk.
var (
	ruleAssert = ruleInfo{
		id:          "B101",
		severity:    schemas.SeverityLow,
		description: "Use of assert detected. Asserts are removed when compiling to optimized byte code.",
	}
	ruleBindAll = ruleInfo{
		id:          "B104",
		severity:    schemas.SeverityMedium,
		description: "Possible binding to all interfaces.",
	}
	ruleHardcodedPassword = ruleInfo{
		id:          "B105",
		severity:    schemas.SeverityLow,
		description: "Possible hardcoded password assigned to a variable.",
	}
)

// subprocessCallees are the bare subprocess helpers that honor shell=True.
var subprocessCallees = map[string]bool{
	"Popen": true, "call": true, "check_call": true,
	"check_output": true, "run": true,
}

// defaultCallRules is the default rule configuration, applied to every call
// expression in document order.
var defaultCallRules = []callRule{
	{
		ruleInfo: ruleInfo{
			id:          "B102",
			severity:    schemas.SeverityMedium,
			description: "Use of exec detected.",
		},
		match: func(call pyast.Call, _ string, _ []byte) bool {
			return call.Name == "exec"
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B307",
			severity:    schemas.SeverityMedium,
			description: "Use of possibly insecure function eval. Consider ast.literal_eval.",
		},
		match: func(call pyast.Call, _ string, _ []byte) bool {
			return call.Name == "eval"
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B301",
			severity:    schemas.SeverityMedium,
			description: "Pickle and modules that wrap it can be unsafe when used to deserialize untrusted data.",
		},
		match: func(_ pyast.Call, callee string, _ []byte) bool {
			switch callee {
			case "pickle.load", "pickle.loads", "marshal.load", "marshal.loads":
				return true
			}
			return false
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B306",
			severity:    schemas.SeverityMedium,
			description: "Use of insecure and deprecated function tempfile.mktemp.",
		},
		match: func(_ pyast.Call, callee string, _ []byte) bool {
			return callee == "tempfile.mktemp"
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B324",
			severity:    schemas.SeverityMedium,
			description: "Use of weak MD5 or SHA1 hash for security.",
		},
		match: func(_ pyast.Call, callee string, _ []byte) bool {
			return callee == "hashlib.md5" || callee == "hashlib.sha1"
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B506",
			severity:    schemas.SeverityMedium,
			description: "Use of unsafe yaml.load. Allows instantiation of arbitrary objects.",
		},
		match: func(call pyast.Call, callee string, source []byte) bool {
			return callee == "yaml.load" && call.Keyword("Loader", source) == nil
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B602",
			severity:    schemas.SeverityHigh,
			description: "subprocess call with shell=True identified, security issue.",
		},
		match: func(call pyast.Call, callee string, source []byte) bool {
			if !strings.HasPrefix(callee, "subprocess.") && !subprocessCallees[call.Name] {
				return false
			}
			value := call.Keyword("shell", source)
			return value != nil && value.Type() == "true"
		},
	},
	{
		ruleInfo: ruleInfo{
			id:          "B501",
			severity:    schemas.SeverityHigh,
			description: "Call to requests with verify=False disabling SSL certificate checks.",
		},
		match: func(call pyast.Call, callee string, source []byte) bool {
			if !strings.HasPrefix(callee, "requests.") {
				return false
			}
			value := call.Keyword("verify", source)
			return value != nil && value.Type() == "false"
		},
	},
}
