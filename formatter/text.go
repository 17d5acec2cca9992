package formatter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/viant/zigguard/analyzer"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pathStyle    = lipgloss.NewStyle().Faint(true)
)

// Text renders one line per issue: "path:line:column: severity: message [type]",
// followed by an indented "suggestion:" line when the issue has one, and
// ends with a single summary line of file and issue counts.
type Text struct {
	Color bool
}

func NewText(color bool) *Text { return &Text{Color: color} }

func (t *Text) Format(w io.Writer, result analyzer.AnalysisResult) error {
	for _, is := range result.Issues {
		severity := string(is.Severity)
		if t.Color {
			severity = t.styleFor(is.Severity).Render(severity)
		}
		location := fmt.Sprintf("%s:%d:%d", is.FilePath, is.Line, is.Column)
		if t.Color {
			location = pathStyle.Render(location)
		}
		if _, err := fmt.Fprintf(w, "%s: %s: %s [%s]\n", location, severity, is.Message, is.Type); err != nil {
			return err
		}
		if is.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "    suggestion: %s\n", is.Suggestion); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d file(s) analyzed, %d issue(s) found (%dms)\n",
		result.FilesAnalyzed, result.IssuesFound, result.AnalysisTimeMs)
	return err
}

func (t *Text) styleFor(sev analyzer.Severity) lipgloss.Style {
	switch sev {
	case analyzer.SeverityError:
		return errorStyle
	case analyzer.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}
