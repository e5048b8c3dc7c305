package models

// Severity is the normalized issue severity (§3).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Fix describes an in-place fix suggestion a linter reported, when available.
type Fix struct {
	Description string `json:"description,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

// Issue is the common shape every linter-specific parser must produce (§3).
type Issue struct {
	File     string   `json:"file"`
	Line     *int     `json:"line,omitempty"`
	Column   *int     `json:"column,omitempty"`
	Rule     string   `json:"rule,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
	Fix      *Fix     `json:"fix,omitempty"`
}

// LinterResult is the normalized outcome of one subprocess run (§4.4 step 11).
type LinterResult struct {
	Success         bool            `json:"success"`
	ExitCode        int             `json:"exit_code"`
	Stdout          string          `json:"stdout,omitempty"`
	Stderr          string          `json:"stderr,omitempty"`
	ExecutionTimeMs int64           `json:"execution_time_ms"`
	ParsedOutput    interface{}     `json:"parsed_output,omitempty"`
	FileCount       int             `json:"file_count"`
	Issues          []Issue         `json:"issues"`
}
