package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/viant/zigguard/analyzer"
)

// Markdown renders a run summary as glamour-rendered markdown —
// grounded on the teacher corpus's chat.go TermRenderer usage,
// repurposed here for a one-shot CLI "--format markdown" report rather than
// interactive chat output.
type Markdown struct{}

func NewMarkdown() *Markdown { return &Markdown{} }

func (m *Markdown) Format(w io.Writer, result analyzer.AnalysisResult) error {
	var src strings.Builder
	fmt.Fprintf(&src, "# zigguard run summary\n\n")
	fmt.Fprintf(&src, "- files analyzed: **%d**\n", result.FilesAnalyzed)
	fmt.Fprintf(&src, "- issues found: **%d**\n", result.IssuesFound)
	fmt.Fprintf(&src, "- duration: **%dms**\n\n", result.AnalysisTimeMs)

	if len(result.Issues) > 0 {
		fmt.Fprintf(&src, "| file | line | type | severity |\n|---|---|---|---|\n")
		for _, is := range result.Issues {
			fmt.Fprintf(&src, "| %s | %d | %s | %s |\n", is.FilePath, is.Line, is.Type, is.Severity)
		}
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return err
	}
	out, err := renderer.Render(src.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
