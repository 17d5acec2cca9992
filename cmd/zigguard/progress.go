package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/viant/zigguard/project"
)

// progressMsg carries one C7 progress-callback observation into the
// bubbletea event loop.
type progressMsg struct {
	processed, total int
	currentFile      string
}

type progressModel struct {
	bar         progress.Model
	processed   int
	total       int
	currentFile string
	result      project.ProjectAnalysisResult
	err         error
	quitting    bool
}

func newProgressModel() progressModel {
	return progressModel{bar: progress.New(progress.WithDefaultGradient())}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	case progressMsg:
		m.processed = msg.processed
		m.total = msg.total
		m.currentFile = msg.currentFile
		return m, nil
	case projectResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.processed) / float64(m.total)
	}
	return fmt.Sprintf("%s\nanalyzing %s (%d/%d)\n", m.bar.ViewAs(pct), m.currentFile, m.processed, m.total)
}

type projectResultMsg struct {
	result project.ProjectAnalysisResult
	err    error
}

// runWithProgress drives driver.CheckProject behind a bubbletea
// progress bar, feeding the driver's sequential (files_processed,
// total_files, current_file) callback into the program as
// progressMsg values.
func runWithProgress(ctx context.Context, drv *project.Driver, root string) (project.ProjectAnalysisResult, error) {
	m := newProgressModel()
	program := tea.NewProgram(m)

	go func() {
		result, err := drv.CheckProject(ctx, root, func(processed, total int, currentFile string) {
			program.Send(progressMsg{processed: processed, total: total, currentFile: currentFile})
		})
		program.Send(projectResultMsg{result: result, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return project.ProjectAnalysisResult{}, err
	}
	fm := final.(progressModel)
	return fm.result, fm.err
}
