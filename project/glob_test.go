package project

import "testing"

func TestMatchGlobDoubleStar(t *testing.T) {
	if !MatchGlob("**/*.zig", "src/alloc/buffer.zig") {
		t.Fatalf("expected match")
	}
	if !MatchGlob("**/*.zig", "main.zig") {
		t.Fatalf("expected match at root")
	}
	if MatchGlob("**/*.zig", "main.go") {
		t.Fatalf("expected no match for different extension")
	}
}

func TestMatchGlobDotDirectory(t *testing.T) {
	if !MatchGlob("**/.*/**", ".git/config") {
		t.Fatalf("expected dot-directory exclusion to match")
	}
	if MatchGlob("**/.*/**", "src/main.zig") {
		t.Fatalf("expected no match for ordinary path")
	}
}

func TestMatchGlobLiteralSegment(t *testing.T) {
	if !MatchGlob("**/vendor/**", "third_party/vendor/lib.zig") {
		t.Fatalf("expected vendor exclusion to match")
	}
}

func TestMatchGlobSingleStarWildcard(t *testing.T) {
	if !MatchGlob("src/*.zig", "src/main.zig") {
		t.Fatalf("expected single-segment wildcard match")
	}
	if MatchGlob("src/*.zig", "src/sub/main.zig") {
		t.Fatalf("single-segment wildcard must not cross a path boundary")
	}
}

func TestDefaultExcludesCoverZigCache(t *testing.T) {
	excludes := DefaultExcludes()
	found := false
	for _, e := range excludes {
		if MatchGlob(e, "zig-cache/o/123/main.o") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected zig-cache directory to be excluded by default")
	}
}
