package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/zigguard/analyzer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDriverCheckProjectAggregatesAndFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "buffer.zig"),
		"fn leaks(allocator: std.mem.Allocator) void {\n    const buf = allocator.alloc(u8, 10);\n}\n")
	writeFile(t, filepath.Join(root, "src", "clean.zig"),
		"fn clean(allocator: std.mem.Allocator) void {\n    const buf = allocator.alloc(u8, 10);\n    defer allocator.free(buf);\n}\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not zig source")
	writeFile(t, filepath.Join(root, "zig-cache", "o", "junk.zig"), "fn junk() void {}\n")

	facade, ferr := analyzer.NewFacade(analyzer.DefaultConfig())
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	drv := New(facade, DefaultDriverConfig(), nil)

	var progressCalls [][2]int
	var lastFile string
	result, err := drv.CheckProject(context.Background(), root, func(processed, total int, currentFile string) {
		progressCalls = append(progressCalls, [2]int{processed, total})
		lastFile = currentFile
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FilesAnalyzed != 2 {
		t.Fatalf("expected 2 files analyzed (zig-cache and .txt excluded), got %d", result.FilesAnalyzed)
	}
	if len(result.SkippedFiles) == 0 {
		t.Fatalf("expected at least one skipped file")
	}
	if len(progressCalls) != 2 {
		t.Fatalf("expected 2 progress callbacks, got %d", len(progressCalls))
	}
	if lastFile == "" {
		t.Fatalf("expected a non-empty current file on the final callback")
	}
	if result.IssuesFound != len(result.Issues) {
		t.Fatalf("issues_found must equal len(issues)")
	}
}

func TestDriverCheckFileAndCheckSource(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "buffer.zig")
	writeFile(t, path, "fn leaks(allocator: std.mem.Allocator) void {\n    const buf = allocator.alloc(u8, 10);\n}\n")

	facade, ferr := analyzer.NewFacade(analyzer.DefaultConfig())
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	drv := New(facade, DefaultDriverConfig(), nil)

	if _, aerr := drv.CheckFile(context.Background(), path); aerr != nil {
		t.Fatalf("unexpected error: %v", aerr)
	}
	if _, aerr := drv.CheckSource([]byte("fn f(allocator: std.mem.Allocator) void {}\n"), "in-memory.zig"); aerr != nil {
		t.Fatalf("unexpected error: %v", aerr)
	}
}
