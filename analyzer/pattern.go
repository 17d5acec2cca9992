package analyzer

import "strings"

// AllocatorPattern attributes an identifier or expression to a named
// allocator kind by literal substring match.
type AllocatorPattern struct {
	Name    string
	Pattern string
}

// OwnershipPattern attributes ownership transfer to a function by
// name or return-type text.
type OwnershipPattern struct {
	FunctionPattern   string
	ReturnTypePattern string
	Description       string
}

// DefaultAllocatorPatterns mirrors the illustrative defaults from the
// specification. Implementers may adjust the set, not the mechanism.
func DefaultAllocatorPatterns() []AllocatorPattern {
	return []AllocatorPattern{
		{Name: "GeneralPurposeAllocator", Pattern: "GeneralPurposeAllocator"},
		{Name: "ArenaAllocator", Pattern: "arena"},
		{Name: "PageAllocator", Pattern: "page_allocator"},
		{Name: "CAllocator", Pattern: "c_allocator"},
		{Name: "FixedBufferAllocator", Pattern: "FixedBufferAllocator"},
		{Name: "std.testing.allocator", Pattern: "std.testing.allocator"},
		{Name: "testing.allocator", Pattern: "testing.allocator"},
	}
}

// DefaultOwnershipPatterns mirrors the default ownership-transfer
// function-name heuristics named in the specification's open
// questions; exposed as configuration per that note.
func DefaultOwnershipPatterns() []OwnershipPattern {
	names := []string{"create", "make", "init", "build", "get", "acquire", "dupe", "copy"}
	patterns := make([]OwnershipPattern, 0, len(names))
	for _, n := range names {
		patterns = append(patterns, OwnershipPattern{
			FunctionPattern: n + "*",
			Description:     "default ownership-transfer name heuristic",
		})
	}
	return patterns
}

// matchEntry is a compiled, ordered pattern table row.
type matchEntry struct {
	name      string
	pattern   string
	fromUser  bool
}

// PatternMatcher resolves a candidate string to the first matching
// pattern's name, honoring the user-overrides-default precedence
// rule: user patterns are tried first, in declaration order, and a
// user pattern sharing a default's name replaces that default
// entirely rather than merely shadowing it at runtime.
type PatternMatcher struct {
	entries  []matchEntry
	warnings []Issue
}

// PatternMatcherOption configures NewPatternMatcher.
type PatternMatcherOption func(*patternBuildConfig)

type patternBuildConfig struct {
	defaults            []AllocatorPattern
	user                []AllocatorPattern
	disabledDefaults    map[string]bool
	useDefaults         bool
}

// WithUserPatterns supplies user-declared allocator patterns.
func WithUserPatterns(patterns ...AllocatorPattern) PatternMatcherOption {
	return func(c *patternBuildConfig) { c.user = append(c.user, patterns...) }
}

// WithDisabledDefaults disables specific default pattern names.
func WithDisabledDefaults(names ...string) PatternMatcherOption {
	return func(c *patternBuildConfig) {
		for _, n := range names {
			c.disabledDefaults[n] = true
		}
	}
}

// WithoutDefaults disables the entire default pattern set.
func WithoutDefaults() PatternMatcherOption {
	return func(c *patternBuildConfig) { c.useDefaults = false }
}

// NewPatternMatcher builds an ordered match table from the default
// set (unless disabled) and user overrides, validating names and
// patterns per the specification's EmptyPatternName / EmptyPattern /
// DuplicatePatternName rules.
func NewPatternMatcher(opts ...PatternMatcherOption) (*PatternMatcher, *AnalysisError) {
	cfg := &patternBuildConfig{
		defaults:         DefaultAllocatorPatterns(),
		disabledDefaults: map[string]bool{},
		useDefaults:      true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	seen := map[string]bool{}
	for _, p := range cfg.user {
		if p.Name == "" {
			return nil, newError(ErrEmptyPatternName, "", nil)
		}
		if p.Pattern == "" {
			return nil, newError(ErrEmptyPattern, "", nil)
		}
		if seen[p.Name] {
			return nil, newError(ErrDuplicatePattern, p.Name, nil)
		}
		seen[p.Name] = true
	}

	pm := &PatternMatcher{}

	for _, p := range cfg.user {
		pm.entries = append(pm.entries, matchEntry{name: p.Name, pattern: p.Pattern, fromUser: true})
		if len(p.Pattern) == 1 {
			pm.warnings = append(pm.warnings, Issue{
				Type:     PatternConfigNotice,
				Severity: SeverityWarning,
				Message:  "single-character allocator pattern accepted: " + p.Name,
			})
		}
	}

	if cfg.useDefaults {
		userNames := seen
		for _, d := range cfg.defaults {
			if cfg.disabledDefaults[d.Name] {
				continue
			}
			if userNames[d.Name] {
				// A user pattern with the same name fully replaces
				// this default; emit an info-level precedence note.
				pm.warnings = append(pm.warnings, Issue{
					Type:     PatternConfigNotice,
					Severity: SeverityInfo,
					Message:  "user pattern overrides built-in pattern: " + d.Name,
				})
				continue
			}
			pm.entries = append(pm.entries, matchEntry{name: d.Name, pattern: d.Pattern})
		}
	}

	return pm, nil
}

// Match returns the name of the first pattern whose literal substring
// occurs in candidate, or "" if none match. User patterns are tried
// first, in declaration order; defaults follow.
func (pm *PatternMatcher) Match(candidate string) string {
	for _, e := range pm.entries {
		if strings.Contains(candidate, e.pattern) {
			return e.name
		}
	}
	return ""
}

// Warnings returns informational issues raised while building the
// pattern table (single-character patterns, default overrides).
func (pm *PatternMatcher) Warnings() []Issue {
	return pm.warnings
}
