package formatter

import (
	"encoding/json"
	"io"

	"github.com/viant/zigguard/analyzer"
)

// JSON renders the wire format named in the specification's external
// interfaces section: a top-level "metadata" object and an "issues"
// array. encoding/json already escapes control characters as
// \u00XX per the JSON string grammar, satisfying that requirement
// without any hand-rolled escaping.
type JSON struct{}

func NewJSON() *JSON { return &JSON{} }

type jsonMetadata struct {
	FilesAnalyzed  int    `json:"files_analyzed"`
	IssuesFound    int    `json:"issues_found"`
	AnalysisTimeMs int64  `json:"analysis_time_ms"`
	RunID          string `json:"run_id,omitempty"`
}

type jsonIssue struct {
	FilePath   string `json:"file_path"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	IssueType  string `json:"issue_type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type jsonDocument struct {
	Metadata jsonMetadata `json:"metadata"`
	Issues   []jsonIssue  `json:"issues"`
}

func (j *JSON) Format(w io.Writer, result analyzer.AnalysisResult) error {
	doc := jsonDocument{
		Metadata: jsonMetadata{
			FilesAnalyzed:  result.FilesAnalyzed,
			IssuesFound:    result.IssuesFound,
			AnalysisTimeMs: result.AnalysisTimeMs,
			RunID:          result.RunID,
		},
		Issues: make([]jsonIssue, len(result.Issues)),
	}
	for i, is := range result.Issues {
		doc.Issues[i] = jsonIssue{
			FilePath:   is.FilePath,
			Line:       is.Line,
			Column:     is.Column,
			IssueType:  string(is.Type),
			Severity:   string(is.Severity),
			Message:    is.Message,
			Suggestion: is.Suggestion,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
