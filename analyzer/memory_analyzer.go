package analyzer

import (
	"fmt"
	"strings"
)

// MemoryConfig configures the MemoryAnalyzer.
type MemoryConfig struct {
	AllowedAllocators []string
	MaxIssues         int // 0 means unbounded
}

// MemoryAnalyzer produces memory-class Issues from a completed scope
// tree and the raw source buffer it was built from.
type MemoryAnalyzer struct {
	cfg MemoryConfig
	sc  *SourceContext
	src []byte
}

// NewMemoryAnalyzer constructs a C4 pass bound to one source buffer.
func NewMemoryAnalyzer(sc *SourceContext, src []byte, cfg MemoryConfig) *MemoryAnalyzer {
	return &MemoryAnalyzer{cfg: cfg, sc: sc, src: src}
}

// Analyze walks the scope tree and arena handles, emitting Issues in
// source order (ascending line, then column).
func (m *MemoryAnalyzer) Analyze(root *Scope, arenas []*arenaHandle) []Issue {
	var issues []Issue

	root.Walk(func(s *Scope) {
		if s.Type == ScopeFile {
			return
		}
		for _, v := range s.Variables {
			if v.IsParameter || v.Kind == "" {
				continue
			}
			issues = append(issues, m.decideVariable(v, s)...)
		}
	})

	for _, ah := range arenas {
		if !m.arenaHasDeinit(ah) {
			issues = append(issues, Issue{
				Line:       ah.variable.Line,
				Column:     ah.variable.Column,
				Type:       ArenaNotDeinitialized,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("arena %q is never torn down with a matching deinit() call", ah.variable.Name),
				Suggestion: fmt.Sprintf("add `defer %s.deinit();` immediately after initialization", ah.variable.Name),
			})
		}
	}

	sortIssuesBySourceOrder(issues)
	if m.cfg.MaxIssues > 0 && len(issues) > m.cfg.MaxIssues {
		issues = issues[:m.cfg.MaxIssues]
	}
	return issues
}

func (m *MemoryAnalyzer) arenaHasDeinit(ah *arenaHandle) bool {
	return ah.variable.HasDefer || ah.variable.HasErrdefer
}

func (m *MemoryAnalyzer) decideVariable(v *Variable, s *Scope) []Issue {
	var issues []Issue

	if v.Kind == AllocArenaInit {
		// The arena handle itself is judged solely by the
		// arena_not_deinitialized pass below, not as an ordinary
		// allocation.
		return issues
	}

	isArenaDerived := strings.HasPrefix(v.Origin, "<arena:")

	if v.FromParameterAllocator {
		// A parameter's allocator is chosen by the caller, not by
		// this function: allowed-allocator validation is skipped.
	} else if isArenaDerived {
		// An arena-derived allocation's effective allocator kind is
		// the arena itself; policy is checked against that name, not
		// against the "<arena:X>" handle tag.
		if len(m.cfg.AllowedAllocators) > 0 && !contains(m.cfg.AllowedAllocators, "ArenaAllocator") {
			issues = append(issues, Issue{
				Line:       v.Line,
				Column:     v.Column,
				Type:       IncorrectAllocator,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("variable %q is allocated from an arena, which is not in the allowed allocator list", v.Name),
				Suggestion: m.allowedAllocatorSuggestion(),
			})
		}
	} else if v.Origin == UnknownOrigin {
		issues = append(issues, Issue{
			Line:       v.Line,
			Column:     v.Column,
			Type:       IncorrectAllocator,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("variable %q is allocated from an unrecognized allocator", v.Name),
			Suggestion: m.allowedAllocatorSuggestion(),
		})
	} else if len(m.cfg.AllowedAllocators) > 0 && !contains(m.cfg.AllowedAllocators, v.Origin) {
		issues = append(issues, Issue{
			Line:       v.Line,
			Column:     v.Column,
			Type:       IncorrectAllocator,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("variable %q uses disallowed allocator %q", v.Name, v.Origin),
			Suggestion: m.allowedAllocatorSuggestion(),
		})
	}

	if v.Transferred {
		if v.HasErrdefer {
			return issues
		}
		if m.scopeMayFail(s, v) {
			issues = append(issues, Issue{
				Line:       v.Line,
				Column:     v.Column,
				Type:       MissingErrdefer,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("transferred variable %q has a fallible path before return with no errdefer cleanup", v.Name),
				Suggestion: fmt.Sprintf("add `errdefer <allocator>.free(%s);` after the allocation", v.Name),
			})
		}
		return issues
	}

	if v.IsArenaOwner {
		return issues
	}

	if isArenaDerived {
		// Allocations drawn from an arena inherit the arena's
		// teardown; per-allocation defer diagnostics are suppressed.
		return issues
	}

	if !v.HasDefer {
		issues = append(issues, Issue{
			Line:       v.Line,
			Column:     v.Column,
			Type:       MissingDefer,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("variable %q is allocated but never freed with a defer statement", v.Name),
			Suggestion: fmt.Sprintf("add `defer <allocator>.free(%s);` after the allocation", v.Name),
		})
	}

	return issues
}

func (m *MemoryAnalyzer) allowedAllocatorSuggestion() string {
	if len(m.cfg.AllowedAllocators) == 0 {
		return ""
	}
	return "allowed allocators: " + strings.Join(m.cfg.AllowedAllocators, ", ")
}

// scopeMayFail heuristically detects a fallible path (a `try`
// expression) between v's declaration line and the function's end.
func (m *MemoryAnalyzer) scopeMayFail(s *Scope, v *Variable) bool {
	fn := s
	for fn != nil && fn.Type != ScopeFunction && fn.Type != ScopeTestFunction {
		fn = fn.Parent
	}
	if fn == nil || fn.EndLine == 0 {
		return false
	}
	start := m.sc.LineOffset(v.Line)
	end := len(m.src)
	if fn.EndLine < m.sc.LineCount() {
		if off := m.sc.LineOffset(fn.EndLine + 1); off > 0 {
			end = off
		}
	}
	if start < 0 || start >= end {
		return false
	}
	segment := string(m.src[start:end])
	return strings.Contains(segment, "try ")
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func sortIssuesBySourceOrder(issues []Issue) {
	for i := 1; i < len(issues); i++ {
		for j := i; j > 0; j-- {
			a, b := issues[j-1], issues[j]
			if a.Line < b.Line || (a.Line == b.Line && a.Column <= b.Column) {
				break
			}
			issues[j-1], issues[j] = issues[j], issues[j-1]
		}
	}
}
