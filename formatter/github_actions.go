package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/viant/zigguard/analyzer"
)

// GitHubActions renders the host CI's workflow-command annotation
// grammar: "::<level> file=<path>,line=<n>,col=<n>::<message>". Per
// the specification, the file field percent-encodes ':', ',', '%',
// '\r', '\n'; the message field percent-encodes '%', '\r', '\n'.
type GitHubActions struct{}

func NewGitHubActions() *GitHubActions { return &GitHubActions{} }

func (g *GitHubActions) Format(w io.Writer, result analyzer.AnalysisResult) error {
	for _, is := range result.Issues {
		level := annotationLevel(is.Severity)
		file := escapeAnnotationProperty(is.FilePath)
		msg := escapeAnnotationMessage(is.Message)
		if _, err := fmt.Fprintf(w, "::%s file=%s,line=%d,col=%d::%s\n", level, file, is.Line, is.Column, msg); err != nil {
			return err
		}
	}
	return nil
}

func annotationLevel(sev analyzer.Severity) string {
	switch sev {
	case analyzer.SeverityError:
		return "error"
	case analyzer.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

func escapeAnnotationProperty(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
		":", "%3A",
		",", "%2C",
	)
	return r.Replace(s)
}

func escapeAnnotationMessage(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
	)
	return r.Replace(s)
}
