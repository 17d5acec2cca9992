package analyzer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func analyzeMemorySrc(t *testing.T, src string, cfg MemoryConfig) []Issue {
	t.Helper()
	sc := NewSourceContext([]byte(src))
	pm, err := NewPatternMatcher()
	if err != nil {
		t.Fatalf("pattern matcher: %v", err)
	}
	tracker := NewScopeTracker(pm, DefaultScopeTrackerOptions())
	tree, arenas, aerr := tracker.Build(sc, []byte(src))
	if aerr != nil {
		t.Fatalf("build: %v", aerr)
	}
	ma := NewMemoryAnalyzer(sc, []byte(src), cfg)
	return ma.Analyze(tree, arenas)
}

func TestScenarioMissingDeferBasic(t *testing.T) {
	src := "fn leaks(allocator: std.mem.Allocator) void {\n" +
		"    const buffer = allocator.alloc(u8, 100);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", issues)
	}
	want := Issue{Line: 2, Type: MissingDefer, Severity: SeverityError}
	if diff := cmp.Diff(want, issues[0], cmpopts.IgnoreFields(Issue{}, "Column", "Message", "Suggestion", "Snippet", "FilePath")); diff != "" {
		t.Fatalf("issue mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioOwnershipTransferByImmediateReturn(t *testing.T) {
	src := "fn createBuffer(a: std.mem.Allocator) ![]u8 {\n" +
		"    return try a.alloc(u8, 100);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	if len(issues) != 0 {
		t.Fatalf("expected zero issues, got %+v", issues)
	}
}

func TestScenarioOwnershipTransferViaStructLiteral(t *testing.T) {
	src := "fn createData(a: std.mem.Allocator) !Data {\n" +
		"    const buffer = a.alloc(u8, 100);\n" +
		"    errdefer a.free(buffer);\n" +
		"    return Data{ .buffer = buffer, .size = 100 };\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	if len(issues) != 0 {
		t.Fatalf("expected zero issues, got %+v", issues)
	}
}

func TestScenarioIncorrectAllocatorWithPolicy(t *testing.T) {
	src := "fn f() void {\n" +
		"    const buf = std.heap.page_allocator.alloc(u8, 10);\n" +
		"    defer std.heap.page_allocator.free(buf);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{AllowedAllocators: []string{"GeneralPurposeAllocator", "std.testing.allocator"}})
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", issues)
	}
	want := Issue{Line: 2, Type: IncorrectAllocator, Severity: issues[0].Severity}
	if diff := cmp.Diff(want, issues[0], cmpopts.IgnoreFields(Issue{}, "Column", "Message", "Suggestion", "Snippet", "FilePath")); diff != "" {
		t.Fatalf("issue mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioParameterAllocatorNotDisallowed(t *testing.T) {
	src := "fn f(allocator: std.mem.Allocator) void {\n" +
		"    const d = allocator.alloc(u8, 4);\n" +
		"    defer allocator.free(d);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{AllowedAllocators: []string{"GeneralPurposeAllocator"}})
	for _, is := range issues {
		if is.Type == IncorrectAllocator {
			t.Fatalf("did not expect incorrect_allocator issue for parameter-derived variable, got %+v", issues)
		}
	}
}

func TestScenarioArenaNotDeinitialized(t *testing.T) {
	src := "fn f(base: std.mem.Allocator) void {\n" +
		"    var arena = std.heap.ArenaAllocator.init(base);\n" +
		"    const aa = arena.allocator();\n" +
		"    const x = aa.alloc(u8, 10);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	var arenaIssues, deferIssues int
	for _, is := range issues {
		switch is.Type {
		case ArenaNotDeinitialized:
			arenaIssues++
		case MissingDefer:
			deferIssues++
		}
	}
	if arenaIssues != 1 {
		t.Fatalf("expected exactly one arena_not_deinitialized issue, got %d (%+v)", arenaIssues, issues)
	}
	if deferIssues != 0 {
		t.Fatalf("expected zero missing_defer issues for arena-derived x, got %d (%+v)", deferIssues, issues)
	}
}

func TestScenarioArenaDerivedIncorrectAllocatorStillFlagged(t *testing.T) {
	src := "fn f(base: std.mem.Allocator) void {\n" +
		"    var arena = std.heap.ArenaAllocator.init(base);\n" +
		"    defer arena.deinit();\n" +
		"    const aa = arena.allocator();\n" +
		"    const x = aa.alloc(u8, 10);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{AllowedAllocators: []string{"GeneralPurposeAllocator", "std.testing.allocator"}})
	found := false
	for _, is := range issues {
		if is.Type == IncorrectAllocator {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected incorrect_allocator issue for arena-derived variable whose arena is not in the allowed list, got %+v", issues)
	}
}

func TestScenarioArenaDerivedTransferredStillGetsMissingErrdefer(t *testing.T) {
	src := "fn createData(base: std.mem.Allocator) !Data {\n" +
		"    var arena = std.heap.ArenaAllocator.init(base);\n" +
		"    defer arena.deinit();\n" +
		"    const aa = arena.allocator();\n" +
		"    const buffer = aa.alloc(u8, 100);\n" +
		"    try mightFail();\n" +
		"    return buffer;\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	found := false
	for _, is := range issues {
		if is.Type == MissingErrdefer {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing_errdefer for transferred arena-derived variable with a fallible path, got %+v", issues)
	}
}

func TestScenarioSourceContextSuppression(t *testing.T) {
	src := "fn f() void {\n" +
		"    // const x = try allocator.alloc(u8, 100);\n" +
		"}\n"
	issues := analyzeMemorySrc(t, src, MemoryConfig{})
	if len(issues) != 0 {
		t.Fatalf("expected zero issues for commented-out allocation, got %+v", issues)
	}
}
