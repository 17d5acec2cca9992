package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectorFindsZigProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "build.zig"), []byte("// build script\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "build.zig.zon"), []byte(".{ .name = .widgets, .version = \"0.1.0\" }"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	sub := filepath.Join(root, "src", "alloc")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	file := filepath.Join(sub, "buffer.zig")
	if err := os.WriteFile(file, []byte("fn f() void {}\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d := NewDetector()
	proj, err := d.DetectProject(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Type != "zig" {
		t.Fatalf("expected zig project type, got %q", proj.Type)
	}
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedGot, _ := filepath.EvalSymlinks(proj.RootPath)
	if resolvedGot != resolvedRoot {
		t.Fatalf("expected root %q, got %q", resolvedRoot, resolvedGot)
	}
	if proj.Name != "widgets" {
		t.Fatalf("expected project name %q, got %q", "widgets", proj.Name)
	}
	if proj.RelativePath != "src/alloc/buffer.zig" {
		t.Fatalf("expected relative path src/alloc/buffer.zig, got %q", proj.RelativePath)
	}
}

func TestDetectorFallsBackToUnknown(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "scratch.zig")
	if err := os.WriteFile(file, []byte("fn f() void {}\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d := NewDetector()
	proj, err := d.DetectProject(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Type != "unknown" && proj.Type != "git" {
		t.Fatalf("expected unknown or git (if test runs inside a repo), got %q", proj.Type)
	}
}
