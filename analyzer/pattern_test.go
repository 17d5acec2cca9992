package analyzer

import "testing"

func TestPatternMatcherDefaults(t *testing.T) {
	pm, err := NewPatternMatcher()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pm.Match("std.heap.page_allocator"); got != "PageAllocator" {
		t.Fatalf("expected PageAllocator, got %q", got)
	}
	if got := pm.Match("nothing_matches_here"); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestPatternMatcherUserOverridesDefault(t *testing.T) {
	pm, err := NewPatternMatcher(WithUserPatterns(AllocatorPattern{
		Name:    "PageAllocator",
		Pattern: "my_custom_page",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pm.Match("std.heap.page_allocator"); got != "" {
		t.Fatalf("expected the default PageAllocator pattern to be fully replaced, got %q", got)
	}
	if got := pm.Match("my_custom_page"); got != "PageAllocator" {
		t.Fatalf("expected user pattern to win, got %q", got)
	}
}

func TestPatternMatcherEmptyName(t *testing.T) {
	_, err := NewPatternMatcher(WithUserPatterns(AllocatorPattern{Name: "", Pattern: "x"}))
	if err == nil || err.Kind != ErrEmptyPatternName {
		t.Fatalf("expected ErrEmptyPatternName, got %v", err)
	}
}

func TestPatternMatcherEmptyPattern(t *testing.T) {
	_, err := NewPatternMatcher(WithUserPatterns(AllocatorPattern{Name: "x", Pattern: ""}))
	if err == nil || err.Kind != ErrEmptyPattern {
		t.Fatalf("expected ErrEmptyPattern, got %v", err)
	}
}

func TestPatternMatcherDuplicateName(t *testing.T) {
	_, err := NewPatternMatcher(WithUserPatterns(
		AllocatorPattern{Name: "dup", Pattern: "a"},
		AllocatorPattern{Name: "dup", Pattern: "b"},
	))
	if err == nil || err.Kind != ErrDuplicatePattern {
		t.Fatalf("expected ErrDuplicatePattern, got %v", err)
	}
}

func TestPatternMatcherDisabledDefault(t *testing.T) {
	pm, err := NewPatternMatcher(WithDisabledDefaults("ArenaAllocator"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pm.Match("my_arena"); got != "" {
		t.Fatalf("expected ArenaAllocator disabled, got %q", got)
	}
}
