package analyzer

import (
	"fmt"
	"strings"
)

// TestingConfig configures the TestingAnalyzer.
type TestingConfig struct {
	EnforceNaming     bool
	EnforceCategories bool
	AllowedCategories []string
}

// DefaultTestingConfig mirrors the specification's illustrative
// category set.
func DefaultTestingConfig() TestingConfig {
	return TestingConfig{
		EnforceNaming:     true,
		EnforceCategories: true,
		AllowedCategories: []string{"unit", "integration", "memory", "memory safety", "regression"},
	}
}

// TestingAnalyzer finds test_function scopes and validates their
// declared name against the configured category/naming scheme.
type TestingAnalyzer struct {
	cfg TestingConfig
}

// NewTestingAnalyzer constructs a C5 pass.
func NewTestingAnalyzer(cfg TestingConfig) *TestingAnalyzer {
	return &TestingAnalyzer{cfg: cfg}
}

// Analyze walks the scope tree and emits testing-compliance Issues,
// in source order.
func (a *TestingAnalyzer) Analyze(root *Scope) []Issue {
	var issues []Issue
	sawTest := false

	root.Walk(func(s *Scope) {
		if s.Type != ScopeTestFunction {
			return
		}
		sawTest = true
		issues = append(issues, a.checkTest(s)...)
	})

	_ = sawTest
	sortIssuesBySourceOrder(issues)
	return issues
}

// MissingTestFile reports whether a file that declares functions
// contains zero test_function scopes at all. The facade calls this
// whenever testing-compliance analysis runs, regardless of file name.
func (a *TestingAnalyzer) MissingTestFile(root *Scope, filePath string) *Issue {
	hasTests := false
	hasFunctions := false
	root.Walk(func(s *Scope) {
		switch s.Type {
		case ScopeTestFunction:
			hasTests = true
		case ScopeFunction:
			hasFunctions = true
		}
	})
	if hasTests || !hasFunctions {
		return nil
	}
	return &Issue{
		FilePath: filePath,
		Line:     1,
		Column:   1,
		Type:     MissingTestFile,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("%s declares functions but has no test declarations", filePath),
	}
}

func (a *TestingAnalyzer) checkTest(s *Scope) []Issue {
	var issues []Issue
	name := s.Name

	category, rest, ok := splitCategory(name)
	if !ok {
		if a.cfg.EnforceCategories {
			issues = append(issues, Issue{
				Line:       s.StartLine,
				Column:     1,
				Type:       MissingTestCategory,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("test %q does not begin with a recognized category", name),
				Suggestion: "allowed categories: " + strings.Join(a.cfg.AllowedCategories, ", "),
			})
		}
		return issues
	}

	if a.cfg.EnforceCategories && len(a.cfg.AllowedCategories) > 0 && !containsFold(a.cfg.AllowedCategories, category) {
		issues = append(issues, Issue{
			Line:       s.StartLine,
			Column:     1,
			Type:       MissingTestCategory,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("test %q uses unrecognized category %q", name, category),
			Suggestion: "allowed categories: " + strings.Join(a.cfg.AllowedCategories, ", "),
		})
	}

	if a.cfg.EnforceNaming {
		descriptive := strings.TrimSpace(rest)
		descriptive = strings.TrimPrefix(descriptive, ":")
		descriptive = strings.TrimSpace(descriptive)
		hasSecondColon := strings.Contains(rest, ":")
		if !hasSecondColon && len(descriptive) < 3 {
			issues = append(issues, Issue{
				Line:     s.StartLine,
				Column:   1,
				Type:     InvalidTestNaming,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("test %q does not follow \"CATEGORY: subject: description\" naming", name),
			})
		}
	}

	if isMemorySafetyCategory(category) && !a.hasCleanupPattern(s) {
		issues = append(issues, Issue{
			Line:     s.StartLine,
			Column:   1,
			Type:     MissingMemorySafetyPatterns,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("memory-safety test %q declares no defer/errdefer cleanup for any allocation in its body", name),
		})
	}

	return issues
}

func (a *TestingAnalyzer) hasCleanupPattern(s *Scope) bool {
	for _, v := range s.Variables {
		if v.Kind != "" && (v.HasDefer || v.HasErrdefer) {
			return true
		}
	}
	for _, c := range s.Children {
		if a.hasCleanupPattern(c) {
			return true
		}
	}
	return false
}

func isMemorySafetyCategory(category string) bool {
	lower := strings.ToLower(category)
	return lower == "memory" || lower == "memory safety"
}

// splitCategory splits a test name of the form "CATEGORY: rest" into
// its category token and remainder. ok is false when the name has no
// leading "token:" shape at all. The category may contain spaces (for
// example "memory safety"); whether it is a recognized category is
// decided by the caller against the allowed list.
func splitCategory(name string) (category, rest string, ok bool) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", name, false
	}
	category = strings.TrimSpace(name[:idx])
	if category == "" {
		return "", name, false
	}
	return category, name[idx+1:], true
}

func containsFold(list []string, item string) bool {
	for _, s := range list {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
