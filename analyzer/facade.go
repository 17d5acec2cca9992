package analyzer

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
)

// Facade coordinates SourceContext, PatternMatcher, ScopeTracker,
// MemoryAnalyzer, and TestingAnalyzer per file or per in-memory
// source, exposing the four entry points named in the specification's
// component design (analyzeMemory/analyzeTests/analyzeSource/analyzeFile).
//
// Go has no manual free, so the specification's "deep-copy every
// owned string before tearing down the inner analyzer" protocol has
// no literal analogue here — there is nothing to tear down and no
// buffer to use-after-free. The facade still honors its spirit: every
// Issue it returns is a plain value (never a pointer into a reused
// scanner buffer), so a caller may retain a Result arbitrarily long
// after the call returns with no aliasing hazard.
type Facade struct {
	cfg Config
	fs  afs.Service
}

// NewFacade builds a Facade from a base configuration and options.
func NewFacade(base Config, opts ...Option) (*Facade, *AnalysisError) {
	cfg := applyOptions(base, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Facade{cfg: cfg, fs: afs.New()}, nil
}

// AnalyzeMemory runs only the memory-defect pass (C4) over source.
func (f *Facade) AnalyzeMemory(source []byte, filePath string) (AnalysisResult, *AnalysisError) {
	return f.run(source, filePath, true, false)
}

// AnalyzeTests runs only the testing-compliance pass (C5) over source.
func (f *Facade) AnalyzeTests(source []byte, filePath string) (AnalysisResult, *AnalysisError) {
	return f.run(source, filePath, false, true)
}

// AnalyzeSource combines C4 and C5 over an in-memory buffer; filePath
// defaults to "<source>" when empty.
func (f *Facade) AnalyzeSource(source []byte, filePath string) (AnalysisResult, *AnalysisError) {
	if filePath == "" {
		filePath = "<source>"
	}
	return f.run(source, filePath, true, true)
}

// AnalyzeFile reads path (via the configured afs.Service, so callers
// get uniform behavior across local and remote-backed storage) and
// then behaves as AnalyzeSource.
func (f *Facade) AnalyzeFile(ctx context.Context, path string) (AnalysisResult, *AnalysisError) {
	source, err := f.fs.DownloadWithURL(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return AnalysisResult{}, newError(ErrFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return AnalysisResult{}, newError(ErrPermissionDenied, path, err)
		}
		return AnalysisResult{}, newError(ErrIO, path, err)
	}
	return f.run(source, path, true, true)
}

func (f *Facade) run(source []byte, filePath string, wantMemory, wantTests bool) (AnalysisResult, *AnalysisError) {
	start := time.Now()

	sc := NewSourceContext(source)
	pm, err := f.cfg.buildPatternMatcher()
	if err != nil {
		return AnalysisResult{}, err
	}
	tracker := NewScopeTracker(pm, f.cfg.scopeOptions())
	root, arenas, berr := tracker.Build(sc, source)
	if berr != nil {
		return AnalysisResult{}, berr
	}

	var issues []Issue
	issues = append(issues, pm.Warnings()...)
	if wantMemory {
		ma := NewMemoryAnalyzer(sc, source, f.cfg.Memory)
		issues = append(issues, ma.Analyze(root, arenas)...)
	}
	if wantTests {
		ta := NewTestingAnalyzer(f.cfg.Testing)
		issues = append(issues, ta.Analyze(root)...)
		if mtf := ta.MissingTestFile(root, filePath); mtf != nil {
			issues = append(issues, *mtf)
		}
	}

	for i := range issues {
		issues[i].FilePath = filePath
	}
	sortIssuesBySourceOrder(issues)

	if f.cfg.Global.MaxIssues > 0 && len(issues) > f.cfg.Global.MaxIssues {
		issues = issues[:f.cfg.Global.MaxIssues]
	}

	result := AnalysisResult{
		Issues:         issues,
		FilesAnalyzed:  1,
		AnalysisTimeMs: time.Since(start).Milliseconds(),
		RunID:          uuid.NewString(),
	}
	result.finalize()
	return result, nil
}
