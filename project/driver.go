package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/viant/zigguard/analyzer"
	"github.com/viant/zigguard/internal/metrics"
)

// ProgressFunc is invoked sequentially, never concurrently, once per
// surviving file as checkProject proceeds.
type ProgressFunc func(filesProcessed, totalFiles int, currentFile string)

// DriverConfig configures a project scan.
type DriverConfig struct {
	// Includes defaults to DefaultIncludes(Ext) when empty.
	Includes []string
	// Excludes defaults to DefaultExcludes() when empty.
	Excludes []string
	// Ext is the source-file extension used to build the default
	// include glob; ignored if Includes is non-empty.
	Ext string
}

// DefaultDriverConfig returns the specification's illustrative
// default: every ".zig" file, minus build-output/cache/dot/vendor
// directories.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{Ext: ".zig"}
}

func (c DriverConfig) includes() []string {
	if len(c.Includes) > 0 {
		return c.Includes
	}
	ext := c.Ext
	if ext == "" {
		ext = ".zig"
	}
	return DefaultIncludes(ext)
}

func (c DriverConfig) excludes() []string {
	if len(c.Excludes) > 0 {
		return c.Excludes
	}
	return DefaultExcludes()
}

// ProjectAnalysisResult aggregates every per-file AnalysisResult
// produced while walking a project, plus the failed and skipped file
// lists named in the specification's C7 data model.
type ProjectAnalysisResult struct {
	Issues         []analyzer.Issue
	FilesAnalyzed  int
	IssuesFound    int
	AnalysisTimeMs int64
	FailedFiles    []string
	SkippedFiles   []string
	RunID          string
}

// Driver walks a project directory, filters files by include/exclude
// glob, and invokes a Facade per surviving file. It parallelizes
// nothing: per the specification's concurrency model, ordering is
// sequential per file so progress-callback observation stays
// linearizable.
type Driver struct {
	facade  *analyzer.Facade
	cfg     DriverConfig
	metrics metrics.Client
}

// New builds a Driver around an already-configured Facade. A nil
// metricsClient falls back to metrics.NoopClient, so callers that
// don't care about observability can omit it.
func New(facade *analyzer.Facade, cfg DriverConfig, metricsClient metrics.Client) *Driver {
	if metricsClient == nil {
		metricsClient = metrics.NewNoopClient()
	}
	return &Driver{facade: facade, cfg: cfg, metrics: metricsClient}
}

// CheckFile runs a single-file analysis through the driver's facade.
// It is a convenience wrapper named after the specification's
// checkFile entry point.
func (d *Driver) CheckFile(ctx context.Context, path string) (analyzer.AnalysisResult, *analyzer.AnalysisError) {
	return d.facade.AnalyzeFile(ctx, path)
}

// CheckSource runs analysis over an in-memory buffer, named after the
// specification's checkSource entry point.
func (d *Driver) CheckSource(source []byte, filePath string) (analyzer.AnalysisResult, *analyzer.AnalysisError) {
	return d.facade.AnalyzeSource(source, filePath)
}

// CheckSourceMemory runs only the memory-defect pass over an
// in-memory buffer, for the CLI's --mode memory.
func (d *Driver) CheckSourceMemory(source []byte, filePath string) (analyzer.AnalysisResult, *analyzer.AnalysisError) {
	return d.facade.AnalyzeMemory(source, filePath)
}

// CheckSourceTests runs only the testing-compliance pass over an
// in-memory buffer, for the CLI's --mode tests.
func (d *Driver) CheckSourceTests(source []byte, filePath string) (analyzer.AnalysisResult, *analyzer.AnalysisError) {
	return d.facade.AnalyzeTests(source, filePath)
}

// CheckProject recursively enumerates regular files under root,
// applies the include/exclude glob policy, and invokes CheckFile for
// every surviving file in deterministic depth-first order. I/O or
// parse errors abort only the offending file — they are recorded in
// FailedFiles and the scan continues, per the specification's
// project-level error propagation policy.
func (d *Driver) CheckProject(ctx context.Context, root string, progress ProgressFunc) (ProjectAnalysisResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ProjectAnalysisResult{}, err
	}

	includes := d.cfg.includes()
	excludes := d.cfg.excludes()

	var candidates []string
	var skipped []string
	walkErr := filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(includes, rel) || matchesAny(excludes, rel) {
			skipped = append(skipped, rel)
			return nil
		}
		candidates = append(candidates, rel)
		return nil
	})
	if walkErr != nil {
		return ProjectAnalysisResult{}, walkErr
	}
	sort.Strings(candidates)
	sort.Strings(skipped)

	result := ProjectAnalysisResult{SkippedFiles: skipped, RunID: uuid.NewString()}
	total := len(candidates)
	for i, rel := range candidates {
		abs := filepath.Join(absRoot, filepath.FromSlash(rel))
		fileResult, aerr := d.facade.AnalyzeFile(ctx, abs)
		if aerr != nil {
			result.FailedFiles = append(result.FailedFiles, rel)
		} else {
			result.Issues = append(result.Issues, fileResult.Issues...)
			result.FilesAnalyzed += fileResult.FilesAnalyzed
			result.AnalysisTimeMs += fileResult.AnalysisTimeMs
			d.metrics.IncrementFilesAnalyzed()
			d.metrics.IncrementIssuesFound(len(fileResult.Issues))
			d.metrics.RecordAnalysisDuration(float64(fileResult.AnalysisTimeMs) / 1000.0)
		}
		if progress != nil {
			progress(i+1, total, rel)
		}
	}
	result.IssuesFound = len(result.Issues)
	return result, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return true
		}
	}
	return false
}
