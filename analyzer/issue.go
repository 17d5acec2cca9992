package analyzer

// IssueType is the closed set of defects the engine can report.
// It is extensible only by adding new tags here.
type IssueType string

const (
	MissingDefer                IssueType = "missing_defer"
	MissingErrdefer             IssueType = "missing_errdefer"
	MemoryLeak                  IssueType = "memory_leak"
	IncorrectAllocator          IssueType = "incorrect_allocator"
	ArenaNotDeinitialized       IssueType = "arena_not_deinitialized"
	DoubleFree                  IssueType = "double_free"
	UseAfterFree                IssueType = "use_after_free"
	OwnershipTransfer           IssueType = "ownership_transfer"
	MissingTestCategory         IssueType = "missing_test_category"
	InvalidTestNaming           IssueType = "invalid_test_naming"
	MissingTestFile             IssueType = "missing_test_file"
	ImproperTestNaming          IssueType = "improper_test_naming"
	MissingMemorySafetyPatterns IssueType = "missing_memory_safety_patterns"
	PatternConfigNotice         IssueType = "pattern_config_notice"
)

// Severity ranks an Issue's importance.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single finding anchored to a file position.
//
// Every string field here is a fresh, independently owned copy by the
// time it leaves the facade (see facade.go) — none of them alias the
// scanner buffers or scope-tree strings that produced them.
type Issue struct {
	FilePath   string    `json:"file_path"`
	Line       int       `json:"line"`
	Column     int       `json:"column"`
	Type       IssueType `json:"issue_type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Snippet    string    `json:"snippet,omitempty"`
}

// AnalysisResult aggregates the issues found in a single analysis call.
// RunID uniquely identifies the call for correlating CLI output with
// logs and metrics; it carries no meaning beyond that.
type AnalysisResult struct {
	Issues         []Issue `json:"issues"`
	FilesAnalyzed  int     `json:"files_analyzed"`
	IssuesFound    int     `json:"issues_found"`
	AnalysisTimeMs int64   `json:"analysis_time_ms"`
	RunID          string  `json:"run_id,omitempty"`
}

// finalize recomputes derived counters so IssuesFound == len(Issues)
// always holds, regardless of how Issues was assembled.
func (r *AnalysisResult) finalize() {
	r.IssuesFound = len(r.Issues)
}
