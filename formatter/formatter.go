// Package formatter renders an analyzer.AnalysisResult as text, JSON,
// GitHub Actions CI annotations, or a markdown summary — the output collaborators the
// specification places out of the analysis core's scope, consuming
// only the fields the core guarantees are present.
package formatter

import (
	"io"

	"github.com/viant/zigguard/analyzer"
)

// Formatter renders a result to w.
type Formatter interface {
	Format(w io.Writer, result analyzer.AnalysisResult) error
}

// ForName resolves a Formatter by the CLI's --format flag value.
func ForName(name string, color bool) Formatter {
	switch name {
	case "json":
		return NewJSON()
	case "github-actions":
		return NewGitHubActions()
	case "markdown":
		return NewMarkdown()
	default:
		return NewText(color)
	}
}
