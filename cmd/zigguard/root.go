package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/viant/zigguard/analyzer"
	"github.com/viant/zigguard/formatter"
	"github.com/viant/zigguard/internal/config"
	"github.com/viant/zigguard/project"
)

const (
	exitOK          = 0
	exitFindings    = 1
	exitUsage       = 2
	exitIO          = 3
)

var (
	flagMode           string
	flagFormat         string
	flagFailOnWarnings bool
	flagInstallHooks   bool
	flagConfigPath     string
	flagMetricsAddr    string
	flagExt            string
)

var rootCmd = &cobra.Command{
	Use:   "zigguard [path]",
	Short: "zigguard finds memory-management and test-naming defects in Zig source",
	Long: `zigguard is a static analyzer for Zig source: a single-pass,
brace-balanced scope tracker paired with a pattern-driven allocator
resolver, an ownership-transfer inference pass, and a testing-naming
validator. It reports missing defer/errdefer, incorrect allocator
choice, un-deinitialized arenas, and test-naming/category violations.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&flagMode, "mode", "all", "analysis mode for a single-file path: memory, tests, or all (directory scans always run all passes)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "output format: text, json, github-actions, or markdown (overrides config/env)")
	rootCmd.Flags().BoolVar(&flagFailOnWarnings, "fail-on-warnings", false, "exit non-zero if any warning-severity issue is found")
	rootCmd.Flags().BoolVar(&flagInstallHooks, "install-hooks", false, "write a .pre-commit-config.yaml for this project and exit")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a JSON configuration file")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "if set, serve Prometheus counters/histogram on this address (e.g. :9090) for the duration of the run")
	rootCmd.Flags().StringVar(&flagExt, "ext", ".zig", "source file extension to scan")
}

func runRoot(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	} else if proj, derr := project.NewDetector().DetectProject(root); derr == nil && proj.RootPath != "" {
		root = proj.RootPath
	}

	resolved, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zigguard: loading config: %v\n", err)
		os.Exit(exitUsage)
	}
	if flagFormat != "" {
		resolved.OutputFormat = flagFormat
	}

	if flagInstallHooks {
		detector := project.NewDetector()
		proj, derr := detector.DetectProject(root)
		installRoot := root
		if derr == nil && proj.RootPath != "" {
			installRoot = proj.RootPath
		}
		if err := installHooks(installRoot, resolved.Config); err != nil {
			fmt.Fprintf(os.Stderr, "zigguard: installing hooks: %v\n", err)
			os.Exit(exitIO)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote .pre-commit-config.yaml to %s\n", installRoot)
		return nil
	}

	metricsEnabled := flagMetricsAddr != ""
	container, err := buildContainer(resolved, metricsEnabled, flagExt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zigguard: building dependency graph: %v\n", err)
		os.Exit(exitUsage)
	}

	if metricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: flagMetricsAddr, Handler: mux}
		go func() {
			if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "zigguard: metrics server: %v\n", serveErr)
			}
		}()
	}

	var result project.ProjectAnalysisResult
	invokeErr := container.Invoke(func(drv *project.Driver) error {
		info, statErr := os.Stat(root)
		isFile := statErr == nil && !info.IsDir()

		if isFile {
			data, rerr := os.ReadFile(root)
			if rerr != nil {
				return rerr
			}
			fileResult, aerr := analyzeByMode(drv, data, root, flagMode)
			if aerr != nil {
				return aerr
			}
			result = project.ProjectAnalysisResult{
				Issues: fileResult.Issues, FilesAnalyzed: fileResult.FilesAnalyzed,
				IssuesFound: fileResult.IssuesFound, AnalysisTimeMs: fileResult.AnalysisTimeMs,
				RunID: fileResult.RunID,
			}
			return nil
		}

		var scanErr error
		if isTerminal(os.Stdout) && resolved.OutputFormat == "text" {
			result, scanErr = runWithProgress(context.Background(), drv, root)
		} else {
			result, scanErr = drv.CheckProject(context.Background(), root, nil)
		}
		return scanErr
	})
	if invokeErr != nil {
		fmt.Fprintf(os.Stderr, "zigguard: %v\n", invokeErr)
		os.Exit(exitIO)
	}

	color := isTerminal(os.Stdout)
	f := formatter.ForName(resolved.OutputFormat, color)
	analysisResult := analyzer.AnalysisResult{
		Issues: result.Issues, FilesAnalyzed: result.FilesAnalyzed,
		IssuesFound: result.IssuesFound, AnalysisTimeMs: result.AnalysisTimeMs,
		RunID: result.RunID,
	}
	if err := f.Format(cmd.OutOrStdout(), analysisResult); err != nil {
		fmt.Fprintf(os.Stderr, "zigguard: formatting output: %v\n", err)
		os.Exit(exitIO)
	}

	os.Exit(exitCodeFor(result, flagFailOnWarnings))
	return nil
}

func analyzeByMode(drv *project.Driver, source []byte, path, mode string) (analyzer.AnalysisResult, *analyzer.AnalysisError) {
	switch mode {
	case "memory":
		return drv.CheckSourceMemory(source, path)
	case "tests":
		return drv.CheckSourceTests(source, path)
	default:
		return drv.CheckSource(source, path)
	}
}

func exitCodeFor(result project.ProjectAnalysisResult, failOnWarnings bool) int {
	hasError := false
	hasWarning := false
	for _, is := range result.Issues {
		switch is.Severity {
		case analyzer.SeverityError:
			hasError = true
		case analyzer.SeverityWarning:
			hasWarning = true
		}
	}
	if hasError || (failOnWarnings && hasWarning) {
		return exitFindings
	}
	return exitOK
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}
